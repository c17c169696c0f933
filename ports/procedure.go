package ports

import "simlab/domain/simulation"

// IntervalProcedure constructs an interval estimate for a population
// parameter from a single sample.
//
// The seed is the replicate seed assigned by the replication engine.
// Deterministic procedures ignore it; resampling-based procedures (bootstrap,
// clustering) use it to derive their own random streams so that a batch
// remains reproducible end to end.
type IntervalProcedure interface {
	// Name identifies the procedure in result records.
	Name() string

	// Interval computes the estimate. Precondition violations (too-small
	// samples, non-positive values for log-space transforms) return a
	// descriptive error rather than NaN bounds.
	Interval(sample simulation.Sample, seed int64) (simulation.IntervalEstimate, error)
}

// TestProcedure decides a one-sample location hypothesis against mu0.
type TestProcedure interface {
	Name() string

	// Test returns the p-value and the reject decision at the procedure's
	// configured significance level. Requires len(sample) >= 2.
	Test(sample simulation.Sample, mu0 float64) (simulation.TestDecision, error)
}
