package inference

import (
	"math/rand/v2"
	"strconv"

	"github.com/montanaflynn/stats"

	"simlab/domain/core"
	"simlab/domain/simulation"
	"simlab/ports"
)

// BootstrapMedianInterval estimates an interval for the center by resampling
// with replacement, taking the median of each resample, and reading the
// 2.5th/97.5th percentiles of the resampled medians.
//
// Resampling randomness is drawn from a stream derived from (runID,
// procedure, replicate seed), so batches are reproducible by default. Setting
// Deterministic to false draws a fresh base seed per call instead; the
// percentile bootstrap is inherently stochastic in that mode.
type BootstrapMedianInterval struct {
	Draws         int
	RunID         string
	Deterministic bool

	rng ports.RNGPort
}

// NewBootstrapMedianInterval creates the procedure with B resampling draws.
func NewBootstrapMedianInterval(draws int, runID string, deterministic bool, rngPort ports.RNGPort) *BootstrapMedianInterval {
	return &BootstrapMedianInterval{
		Draws:         draws,
		RunID:         runID,
		Deterministic: deterministic,
		rng:           rngPort,
	}
}

// Name identifies the procedure in result records.
func (p *BootstrapMedianInterval) Name() string {
	return "bootstrap_median_95_ci"
}

// Interval computes the percentile-bootstrap interval. Requires
// len(sample) >= 2 and at least one draw.
func (p *BootstrapMedianInterval) Interval(sample simulation.Sample, seed int64) (simulation.IntervalEstimate, error) {
	data := []float64(sample)
	n := len(data)
	if n < 2 {
		return simulation.IntervalEstimate{}, core.NewSampleSizeError(p.Name(), n, 2)
	}

	baseSeed := seed
	if !p.Deterministic {
		baseSeed = rand.Int64()
	}
	stream, err := p.rng.Stream(p.RunID, p.Name(), "replicate_"+strconv.FormatInt(seed, 10), baseSeed)
	if err != nil {
		return simulation.IntervalEstimate{}, err
	}

	medians := make([]float64, p.Draws)
	resample := make([]float64, n)
	for b := 0; b < p.Draws; b++ {
		for i := range resample {
			resample[i] = data[stream.IntN(n)]
		}
		med, err := stats.Median(resample)
		if err != nil {
			return simulation.IntervalEstimate{}, err
		}
		medians[b] = med
	}

	lower, err := stats.Percentile(medians, 2.5)
	if err != nil {
		return simulation.IntervalEstimate{}, err
	}
	upper, err := stats.Percentile(medians, 97.5)
	if err != nil {
		return simulation.IntervalEstimate{}, err
	}
	return simulation.IntervalEstimate{Lower: lower, Upper: upper}, nil
}
