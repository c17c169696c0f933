package simulation

import "fmt"

// GridConfig carries every constant the experiment grid and replication engine
// depend on. Passing it explicitly (instead of module-level globals) lets
// multiple configurations run concurrently without interference.
type GridConfig struct {
	SampleSizes             []int   `json:"sample_sizes"`
	Replicates              int     `json:"replicates"`
	RemediationReps         int     `json:"remediation_replicates"`
	Alpha                   float64 `json:"alpha"`
	SeedStart               int64   `json:"seed_start"`
	ConvergenceSeed         int64   `json:"convergence_seed"`
	EstimationSeed          int64   `json:"estimation_seed"`
	BootstrapDraws          int     `json:"bootstrap_draws"`
	TrimFraction            float64 `json:"trim_fraction"`
	MixtureBreakdownN       int     `json:"mixture_breakdown_n"`
	DeterministicResampling bool    `json:"deterministic_resampling"`
}

// DefaultGridConfig returns the reference configuration.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		SampleSizes:             []int{50, 200, 500, 1000, 5000},
		Replicates:              1000,
		RemediationReps:         800,
		Alpha:                   0.05,
		SeedStart:               0,
		ConvergenceSeed:         0,
		EstimationSeed:          42,
		BootstrapDraws:          600,
		TrimFraction:            0.1,
		MixtureBreakdownN:       1200,
		DeterministicResampling: true,
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c GridConfig) Validate() error {
	if len(c.SampleSizes) == 0 {
		return fmt.Errorf("grid config: sample size list is empty")
	}
	for _, n := range c.SampleSizes {
		if n < 1 {
			return fmt.Errorf("grid config: sample size %d < 1", n)
		}
	}
	if c.Replicates < 1 {
		return fmt.Errorf("grid config: replicates %d < 1", c.Replicates)
	}
	if c.RemediationReps < 1 {
		return fmt.Errorf("grid config: remediation replicates %d < 1", c.RemediationReps)
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("grid config: alpha %g outside (0, 1)", c.Alpha)
	}
	if c.BootstrapDraws < 1 {
		return fmt.Errorf("grid config: bootstrap draws %d < 1", c.BootstrapDraws)
	}
	if c.TrimFraction < 0 || c.TrimFraction >= 0.5 {
		return fmt.Errorf("grid config: trim fraction %g outside [0, 0.5)", c.TrimFraction)
	}
	if c.MixtureBreakdownN < 4 {
		return fmt.Errorf("grid config: mixture breakdown n %d < 4", c.MixtureBreakdownN)
	}
	return nil
}
