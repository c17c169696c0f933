package simulation

import (
	"time"

	"simlab/domain/core"
)

// One typed record per experiment kind, assembled into a flat slice and
// handed to the boundary layer (export, API, persistence). Records are
// immutable once the replication engine has produced them.

// CoverageRecord is one (distribution, n) cell of the coverage experiment.
type CoverageRecord struct {
	Distribution DistributionKind `json:"distribution" db:"distribution"`
	N            int              `json:"n" db:"n"`
	Coverage     float64          `json:"coverage" db:"coverage"`
	AvgCIWidth   float64          `json:"avg_ci_width" db:"avg_ci_width"`
}

// ConvergenceRecord tracks the sample mean of a single draw as n grows.
type ConvergenceRecord struct {
	Distribution  DistributionKind `json:"distribution" db:"distribution"`
	N             int              `json:"n" db:"n"`
	SampleMean    float64          `json:"sample_mean" db:"sample_mean"`
	TrueMean      float64          `json:"true_mean" db:"true_mean"`
	AbsoluteError float64          `json:"absolute_error" db:"absolute_error"`
}

// EstimationRecord compares single-draw moment estimates to truth.
type EstimationRecord struct {
	Distribution   DistributionKind `json:"distribution" db:"distribution"`
	N              int              `json:"n" db:"n"`
	SampleMean     float64          `json:"sample_mean" db:"sample_mean"`
	TrueMean       float64          `json:"true_mean" db:"true_mean"`
	MeanBias       float64          `json:"mean_bias" db:"mean_bias"`
	SampleVariance float64          `json:"sample_variance" db:"sample_variance"`
	TrueVariance   float64          `json:"true_variance" db:"true_variance"`
	VarianceError  float64          `json:"variance_error" db:"variance_error"`
}

// TestingRecord is the empirical Type I error rate of the one-sample t-test
// under a true null for one (distribution, n) cell.
type TestingRecord struct {
	Distribution DistributionKind `json:"distribution" db:"distribution"`
	N            int              `json:"n" db:"n"`
	TypeIError   float64          `json:"type_i_error" db:"type_i_error"`
}

// RemediationRecord compares a baseline interval procedure against a remedial
// variant on the same replicates.
type RemediationRecord struct {
	Distribution DistributionKind `json:"distribution" db:"distribution"`
	N            int              `json:"n" db:"n"`
	Procedure    string           `json:"procedure" db:"procedure"`
	Coverage     float64          `json:"coverage" db:"coverage"`
	AvgCIWidth   float64          `json:"avg_ci_width" db:"avg_ci_width"`
}

// ClusterInterval is one cluster's mean and interval from the two-cluster fit.
type ClusterInterval struct {
	Mean     float64          `json:"mean"`
	Interval IntervalEstimate `json:"interval"`
	Size     int              `json:"size"`
}

// MixtureBreakdown demonstrates that a single pooled mean is misleading for
// genuinely bimodal data: one pooled interval against two per-cluster ones.
type MixtureBreakdown struct {
	N              int              `json:"n"`
	Seed           int64            `json:"seed"`
	PooledMean     float64          `json:"pooled_mean"`
	PooledInterval IntervalEstimate `json:"pooled_interval"`
	Clusters       []ClusterInterval `json:"clusters"`
}

// RunManifest records the identity and configuration of one full grid sweep.
type RunManifest struct {
	RunID      core.RunID `json:"run_id"`
	Config     GridConfig `json:"config"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}

// RunResult is the complete output of one orchestrated run, consumed by the
// export, persistence, and API boundary adapters.
type RunResult struct {
	Manifest    RunManifest         `json:"manifest"`
	Coverage    []CoverageRecord    `json:"coverage"`
	Convergence []ConvergenceRecord `json:"convergence"`
	Estimation  []EstimationRecord  `json:"estimation"`
	Testing     []TestingRecord     `json:"testing"`
	Remediation []RemediationRecord `json:"remediation"`
	Mixture     MixtureBreakdown    `json:"mixture_breakdown"`
}
