package app

import (
	"context"
	"fmt"
	"runtime"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"simlab/domain/core"
	"simlab/domain/simulation"
	"simlab/internal/inference"
	"simlab/internal/replication"
	"simlab/ports"
)

// ExperimentService runs the experiment grid: for each (distribution, n)
// cell it drives the replication engine and collects one typed record per
// cell. Cells are mutually independent, so they run concurrently; every cell
// derives its own seeds, never a shared source.
type ExperimentService struct {
	cfg        simulation.GridConfig
	engine     *replication.Engine
	generators []ports.GeneratorPort
	rng        ports.RNGPort
	runID      core.RunID
}

// NewExperimentService creates the service for one run.
func NewExperimentService(cfg simulation.GridConfig, generators []ports.GeneratorPort, rngPort ports.RNGPort, runID core.RunID) *ExperimentService {
	return &ExperimentService{
		cfg:        cfg,
		engine:     replication.NewEngine(),
		generators: generators,
		rng:        rngPort,
		runID:      runID,
	}
}

// RunCoverage estimates empirical 95% CI coverage of the classical interval
// for every (distribution, n) cell.
func (s *ExperimentService) RunCoverage(ctx context.Context) ([]simulation.CoverageRecord, error) {
	records := make([]simulation.CoverageRecord, len(s.cfg.SampleSizes)*len(s.generators))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, n := range s.cfg.SampleSizes {
		for j, gen := range s.generators {
			idx, n, gen := i*len(s.generators)+j, n, gen
			g.Go(func() error {
				desc := gen.Descriptor()
				summaries, err := s.engine.RunIntervalBatch(ctx, replication.IntervalBatch{
					Generator:  gen,
					Procedures: []ports.IntervalProcedure{inference.NewNormalApproxInterval()},
					TrueMean:   desc.TrueMean,
					N:          n,
					Replicates: s.cfg.Replicates,
					SeedStart:  s.cfg.SeedStart,
				})
				if err != nil {
					return fmt.Errorf("coverage cell (%s, n=%d): %w", desc.Kind, n, err)
				}
				records[idx] = simulation.CoverageRecord{
					Distribution: desc.Kind,
					N:            n,
					Coverage:     summaries[0].CoverageRate,
					AvgCIWidth:   summaries[0].AvgWidth,
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// RunConvergence performs a single draw per (distribution, n) cell and
// records the absolute error of the sample mean from the true mean. One draw,
// not a replicate batch: this tracks estimator behavior as n grows rather
// than repeated-sampling variability.
func (s *ExperimentService) RunConvergence(_ context.Context) ([]simulation.ConvergenceRecord, error) {
	records := make([]simulation.ConvergenceRecord, 0, len(s.cfg.SampleSizes)*len(s.generators))

	for _, gen := range s.generators {
		desc := gen.Descriptor()
		for _, n := range s.cfg.SampleSizes {
			sample, err := gen.Generate(n, s.cfg.ConvergenceSeed)
			if err != nil {
				return nil, fmt.Errorf("convergence cell (%s, n=%d): %w", desc.Kind, n, err)
			}
			mean, err := stats.Mean([]float64(sample))
			if err != nil {
				return nil, err
			}
			absErr := mean - desc.TrueMean
			if absErr < 0 {
				absErr = -absErr
			}
			records = append(records, simulation.ConvergenceRecord{
				Distribution:  desc.Kind,
				N:             n,
				SampleMean:    mean,
				TrueMean:      desc.TrueMean,
				AbsoluteError: absErr,
			})
		}
	}
	return records, nil
}

// RunEstimation performs a single draw per cell and compares the sample mean
// and unbiased sample variance to the true moments.
func (s *ExperimentService) RunEstimation(_ context.Context) ([]simulation.EstimationRecord, error) {
	records := make([]simulation.EstimationRecord, 0, len(s.cfg.SampleSizes)*len(s.generators))

	for _, n := range s.cfg.SampleSizes {
		for _, gen := range s.generators {
			desc := gen.Descriptor()
			sample, err := gen.Generate(n, s.cfg.EstimationSeed)
			if err != nil {
				return nil, fmt.Errorf("estimation cell (%s, n=%d): %w", desc.Kind, n, err)
			}
			data := []float64(sample)
			mean, err := stats.Mean(data)
			if err != nil {
				return nil, err
			}
			variance, err := stats.SampleVariance(data)
			if err != nil {
				return nil, err
			}
			records = append(records, simulation.EstimationRecord{
				Distribution:   desc.Kind,
				N:              n,
				SampleMean:     mean,
				TrueMean:       desc.TrueMean,
				MeanBias:       mean - desc.TrueMean,
				SampleVariance: variance,
				TrueVariance:   desc.TrueVariance,
				VarianceError:  variance - desc.TrueVariance,
			})
		}
	}
	return records, nil
}

// RunTesting estimates the empirical Type I error rate of the one-sample
// t-test under a true null for every (distribution, n) cell.
func (s *ExperimentService) RunTesting(ctx context.Context) ([]simulation.TestingRecord, error) {
	records := make([]simulation.TestingRecord, len(s.cfg.SampleSizes)*len(s.generators))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, n := range s.cfg.SampleSizes {
		for j, gen := range s.generators {
			idx, n, gen := i*len(s.generators)+j, n, gen
			g.Go(func() error {
				desc := gen.Descriptor()
				summary, err := s.engine.RunTestBatch(ctx, replication.TestBatch{
					Generator:  gen,
					Procedure:  inference.NewOneSampleTTest(s.cfg.Alpha),
					Mu0:        desc.TrueMean,
					N:          n,
					Replicates: s.cfg.Replicates,
					SeedStart:  s.cfg.SeedStart,
				})
				if err != nil {
					return fmt.Errorf("testing cell (%s, n=%d): %w", desc.Kind, n, err)
				}
				records[idx] = simulation.TestingRecord{
					Distribution: desc.Kind,
					N:            n,
					TypeIError:   summary.TypeIRate,
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *ExperimentService) generatorByKind(kind simulation.DistributionKind) (ports.GeneratorPort, error) {
	for _, gen := range s.generators {
		if gen.Descriptor().Kind == kind {
			return gen, nil
		}
	}
	return nil, fmt.Errorf("no generator registered for distribution %q", kind)
}
