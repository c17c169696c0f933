package app

import (
	"context"
	"fmt"
	"time"

	"simlab/domain/core"
	"simlab/domain/simulation"
	"simlab/internal"
	"simlab/ports"
)

// RunService orchestrates a complete grid sweep: all experiments under one
// run ID, then hands the assembled result to the configured boundary
// adapters (persistence, export). The result itself stays in memory; nothing
// in the core depends on what the adapters do with it.
type RunService struct {
	cfg        simulation.GridConfig
	generators []ports.GeneratorPort
	rng        ports.RNGPort
	repo       ports.ResultsRepositoryPort // optional
	exporters  []ports.ReportExporterPort
	log        *internal.Logger
}

// NewRunService creates the orchestrator. repo may be nil; exporters may be
// empty.
func NewRunService(cfg simulation.GridConfig, generators []ports.GeneratorPort, rngPort ports.RNGPort, repo ports.ResultsRepositoryPort, exporters []ports.ReportExporterPort, logger *internal.Logger) *RunService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &RunService{
		cfg:        cfg,
		generators: generators,
		rng:        rngPort,
		repo:       repo,
		exporters:  exporters,
		log:        logger,
	}
}

// Execute runs every experiment and returns the assembled result.
func (s *RunService) Execute(ctx context.Context) (*simulation.RunResult, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	runID := core.RunID(core.NewID())
	startedAt := time.Now().UTC()
	s.log.Info("run %s: starting grid sweep (%d sample sizes x %d distributions, R=%d)",
		runID, len(s.cfg.SampleSizes), len(s.generators), s.cfg.Replicates)

	svc := NewExperimentService(s.cfg, s.generators, s.rng, runID)

	coverage, err := svc.RunCoverage(ctx)
	if err != nil {
		return nil, fmt.Errorf("coverage experiment: %w", err)
	}
	s.log.Debug("run %s: coverage experiment done (%d records)", runID, len(coverage))

	convergence, err := svc.RunConvergence(ctx)
	if err != nil {
		return nil, fmt.Errorf("convergence experiment: %w", err)
	}

	estimation, err := svc.RunEstimation(ctx)
	if err != nil {
		return nil, fmt.Errorf("estimation experiment: %w", err)
	}

	testing, err := svc.RunTesting(ctx)
	if err != nil {
		return nil, fmt.Errorf("testing experiment: %w", err)
	}
	s.log.Debug("run %s: testing experiment done (%d records)", runID, len(testing))

	lognormalFix, err := svc.RunLognormalRemediation(ctx)
	if err != nil {
		return nil, fmt.Errorf("lognormal remediation: %w", err)
	}
	heavyTailFix, err := svc.RunHeavyTailRemediation(ctx)
	if err != nil {
		return nil, fmt.Errorf("heavy-tail remediation: %w", err)
	}

	mixture, err := svc.RunMixtureBreakdown(ctx)
	if err != nil {
		return nil, fmt.Errorf("mixture breakdown: %w", err)
	}

	result := &simulation.RunResult{
		Manifest: simulation.RunManifest{
			RunID:      runID,
			Config:     s.cfg,
			StartedAt:  startedAt,
			FinishedAt: time.Now().UTC(),
		},
		Coverage:    coverage,
		Convergence: convergence,
		Estimation:  estimation,
		Testing:     testing,
		Remediation: append(lognormalFix, heavyTailFix...),
		Mixture:     mixture,
	}

	if s.repo != nil {
		if err := s.repo.SaveRun(ctx, result); err != nil {
			return nil, fmt.Errorf("persisting run %s: %w", runID, err)
		}
		s.log.Info("run %s: persisted", runID)
	}
	for _, exp := range s.exporters {
		if err := exp.Export(result); err != nil {
			return nil, fmt.Errorf("exporting run %s: %w", runID, err)
		}
	}

	s.log.Info("run %s: finished in %s", runID, result.Manifest.FinishedAt.Sub(startedAt))
	return result, nil
}
