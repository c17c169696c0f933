package app

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"simlab/domain/simulation"
	"simlab/internal/inference"
	"simlab/internal/replication"
	"simlab/ports"
)

// Remediation experiments: rerun the coverage sweep on the distribution that
// breaks a baseline procedure, with the remedial variant evaluated on the
// same replicates, so the comparison is apples to apples.

// RunLognormalRemediation compares the classical interval against the
// log-space interval on lognormal data across sample sizes.
func (s *ExperimentService) RunLognormalRemediation(ctx context.Context) ([]simulation.RemediationRecord, error) {
	gen, err := s.generatorByKind(simulation.DistLognormal)
	if err != nil {
		return nil, err
	}
	procs := []ports.IntervalProcedure{
		inference.NewNormalApproxInterval(),
		inference.NewLogSpaceInterval(),
	}
	return s.runRemediation(ctx, gen, procs)
}

// RunHeavyTailRemediation compares the classical interval against the
// bootstrap-median and trimmed-mean intervals on heavy-tailed Student-t data.
func (s *ExperimentService) RunHeavyTailRemediation(ctx context.Context) ([]simulation.RemediationRecord, error) {
	gen, err := s.generatorByKind(simulation.DistStudentT)
	if err != nil {
		return nil, err
	}
	procs := []ports.IntervalProcedure{
		inference.NewNormalApproxInterval(),
		inference.NewBootstrapMedianInterval(s.cfg.BootstrapDraws, s.runID.String(), s.cfg.DeterministicResampling, s.rng),
		inference.NewTrimmedMeanInterval(s.cfg.TrimFraction),
	}
	return s.runRemediation(ctx, gen, procs)
}

func (s *ExperimentService) runRemediation(ctx context.Context, gen ports.GeneratorPort, procs []ports.IntervalProcedure) ([]simulation.RemediationRecord, error) {
	desc := gen.Descriptor()
	records := make([]simulation.RemediationRecord, len(s.cfg.SampleSizes)*len(procs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, n := range s.cfg.SampleSizes {
		i, n := i, n
		g.Go(func() error {
			summaries, err := s.engine.RunIntervalBatch(ctx, replication.IntervalBatch{
				Generator:  gen,
				Procedures: procs,
				TrueMean:   desc.TrueMean,
				N:          n,
				Replicates: s.cfg.RemediationReps,
				SeedStart:  s.cfg.SeedStart,
			})
			if err != nil {
				return fmt.Errorf("remediation cell (%s, n=%d): %w", desc.Kind, n, err)
			}
			for j, summary := range summaries {
				records[i*len(procs)+j] = simulation.RemediationRecord{
					Distribution: desc.Kind,
					N:            n,
					Procedure:    summary.Procedure,
					Coverage:     summary.CoverageRate,
					AvgCIWidth:   summary.AvgWidth,
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// RunMixtureBreakdown draws one large bimodal sample, computes the pooled
// mean with its classical interval, then fits the two-cluster analyzer and
// computes per-cluster intervals.
func (s *ExperimentService) RunMixtureBreakdown(_ context.Context) (simulation.MixtureBreakdown, error) {
	gen, err := s.generatorByKind(simulation.DistMixture)
	if err != nil {
		return simulation.MixtureBreakdown{}, err
	}

	n := s.cfg.MixtureBreakdownN
	seed := s.cfg.ConvergenceSeed
	sample, err := gen.Generate(n, seed)
	if err != nil {
		return simulation.MixtureBreakdown{}, fmt.Errorf("mixture breakdown draw: %w", err)
	}

	classical := inference.NewNormalApproxInterval()
	pooledCI, err := classical.Interval(sample, seed)
	if err != nil {
		return simulation.MixtureBreakdown{}, err
	}
	pooledMean := (pooledCI.Lower + pooledCI.Upper) / 2

	analyzer := inference.NewTwoClusterAnalyzer(s.runID.String(), s.cfg.DeterministicResampling, s.rng)
	clusters, err := analyzer.Clusters(sample, seed)
	if err != nil {
		return simulation.MixtureBreakdown{}, fmt.Errorf("two-cluster fit: %w", err)
	}

	return simulation.MixtureBreakdown{
		N:              n,
		Seed:           seed,
		PooledMean:     pooledMean,
		PooledInterval: pooledCI,
		Clusters:       clusters,
	}, nil
}
