// Package replication drives repeated draw-and-evaluate cycles for one
// (generator, sample size, procedure) setting and reduces the per-replicate
// outcomes into summary rates.
package replication

import (
	"context"
	"fmt"

	"simlab/ports"
)

// Engine runs Monte Carlo batches. Replicates are mutually independent: each
// uses its own seed (seed_start + index) and its own generator source, so no
// replicate's outcome can depend on another's.
type Engine struct{}

// NewEngine creates a replication engine.
func NewEngine() *Engine {
	return &Engine{}
}

// IntervalBatch describes one coverage batch.
type IntervalBatch struct {
	Generator  ports.GeneratorPort
	Procedures []ports.IntervalProcedure
	TrueMean   float64
	N          int
	Replicates int
	SeedStart  int64
}

// IntervalSummary aggregates one procedure's outcomes over a batch.
type IntervalSummary struct {
	Procedure    string  `json:"procedure"`
	CoverageRate float64 `json:"coverage_rate"`
	AvgWidth     float64 `json:"avg_width"`
}

// TestBatch describes one Type I error batch. Mu0 is the hypothesized mean;
// setting it to the generator's true mean makes the null hypothesis true, so
// every rejection is a false rejection.
type TestBatch struct {
	Generator  ports.GeneratorPort
	Procedure  ports.TestProcedure
	Mu0        float64
	N          int
	Replicates int
	SeedStart  int64
}

// TestSummary aggregates test outcomes over a batch.
type TestSummary struct {
	Procedure string  `json:"procedure"`
	TypeIRate float64 `json:"type_i_rate"`
}

// RunIntervalBatch runs b.Replicates independent replicates. Every procedure
// in the batch consumes the same draw within a replicate, so remedial
// variants are compared on identical data. A procedure error aborts the
// whole batch; silently skipping a replicate would bias the aggregated rates.
func (e *Engine) RunIntervalBatch(ctx context.Context, b IntervalBatch) ([]IntervalSummary, error) {
	if err := validateBatch(b.N, b.Replicates); err != nil {
		return nil, err
	}
	if len(b.Procedures) == 0 {
		return nil, fmt.Errorf("interval batch has no procedures")
	}

	covered := make([]int, len(b.Procedures))
	widthSum := make([]float64, len(b.Procedures))

	for i := 0; i < b.Replicates; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seed := b.SeedStart + int64(i)

		sample, err := b.Generator.Generate(b.N, seed)
		if err != nil {
			return nil, fmt.Errorf("replicate %d: %w", i, err)
		}
		for j, proc := range b.Procedures {
			ci, err := proc.Interval(sample, seed)
			if err != nil {
				return nil, fmt.Errorf("replicate %d: %s: %w", i, proc.Name(), err)
			}
			if ci.Covers(b.TrueMean) {
				covered[j]++
			}
			widthSum[j] += ci.Width()
		}
	}

	summaries := make([]IntervalSummary, len(b.Procedures))
	for j, proc := range b.Procedures {
		summaries[j] = IntervalSummary{
			Procedure:    proc.Name(),
			CoverageRate: float64(covered[j]) / float64(b.Replicates),
			AvgWidth:     widthSum[j] / float64(b.Replicates),
		}
	}
	return summaries, nil
}

// RunTestBatch runs b.Replicates independent test replicates and reduces
// them to the empirical rejection rate.
func (e *Engine) RunTestBatch(ctx context.Context, b TestBatch) (TestSummary, error) {
	if err := validateBatch(b.N, b.Replicates); err != nil {
		return TestSummary{}, err
	}

	rejected := 0
	for i := 0; i < b.Replicates; i++ {
		if err := ctx.Err(); err != nil {
			return TestSummary{}, err
		}
		seed := b.SeedStart + int64(i)

		sample, err := b.Generator.Generate(b.N, seed)
		if err != nil {
			return TestSummary{}, fmt.Errorf("replicate %d: %w", i, err)
		}
		decision, err := b.Procedure.Test(sample, b.Mu0)
		if err != nil {
			return TestSummary{}, fmt.Errorf("replicate %d: %s: %w", i, b.Procedure.Name(), err)
		}
		if decision.Reject {
			rejected++
		}
	}

	return TestSummary{
		Procedure: b.Procedure.Name(),
		TypeIRate: float64(rejected) / float64(b.Replicates),
	}, nil
}

func validateBatch(n, replicates int) error {
	if n < 1 {
		return fmt.Errorf("batch sample size %d < 1", n)
	}
	if replicates < 1 {
		return fmt.Errorf("batch replicate count %d < 1", replicates)
	}
	return nil
}
