package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"simlab/domain/core"
	"simlab/domain/simulation"
	"simlab/ports"
)

// resultsRepository implements ports.ResultsRepositoryPort on Postgres.
// Persistence is an opt-in boundary concern: the simulation core never reads
// stored runs back, it exists so runs can be diffed across code versions.
type resultsRepository struct {
	db *sqlx.DB
}

// NewResultsRepository connects and ensures the schema exists.
func NewResultsRepository(databaseURL string) (ports.ResultsRepositoryPort, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to results database: %w", err)
	}
	repo := &resultsRepository{db: db}
	if err := repo.ensureSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *resultsRepository) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS simulation_runs (
		id TEXT PRIMARY KEY,
		config JSONB NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS coverage_records (
		run_id TEXT REFERENCES simulation_runs(id) ON DELETE CASCADE,
		distribution TEXT NOT NULL,
		n INT NOT NULL,
		coverage DOUBLE PRECISION NOT NULL,
		avg_ci_width DOUBLE PRECISION NOT NULL
	);
	CREATE TABLE IF NOT EXISTS convergence_records (
		run_id TEXT REFERENCES simulation_runs(id) ON DELETE CASCADE,
		distribution TEXT NOT NULL,
		n INT NOT NULL,
		sample_mean DOUBLE PRECISION NOT NULL,
		true_mean DOUBLE PRECISION NOT NULL,
		absolute_error DOUBLE PRECISION NOT NULL
	);
	CREATE TABLE IF NOT EXISTS estimation_records (
		run_id TEXT REFERENCES simulation_runs(id) ON DELETE CASCADE,
		distribution TEXT NOT NULL,
		n INT NOT NULL,
		sample_mean DOUBLE PRECISION NOT NULL,
		true_mean DOUBLE PRECISION NOT NULL,
		mean_bias DOUBLE PRECISION NOT NULL,
		sample_variance DOUBLE PRECISION NOT NULL,
		true_variance DOUBLE PRECISION NOT NULL,
		variance_error DOUBLE PRECISION NOT NULL
	);
	CREATE TABLE IF NOT EXISTS testing_records (
		run_id TEXT REFERENCES simulation_runs(id) ON DELETE CASCADE,
		distribution TEXT NOT NULL,
		n INT NOT NULL,
		type_i_error DOUBLE PRECISION NOT NULL
	);
	CREATE TABLE IF NOT EXISTS remediation_records (
		run_id TEXT REFERENCES simulation_runs(id) ON DELETE CASCADE,
		distribution TEXT NOT NULL,
		n INT NOT NULL,
		procedure TEXT NOT NULL,
		coverage DOUBLE PRECISION NOT NULL,
		avg_ci_width DOUBLE PRECISION NOT NULL
	);
	CREATE TABLE IF NOT EXISTS mixture_breakdowns (
		run_id TEXT REFERENCES simulation_runs(id) ON DELETE CASCADE,
		breakdown JSONB NOT NULL
	);`

	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to ensure results schema: %w", err)
	}
	return nil
}

// SaveRun stores the manifest and every record table in one transaction.
func (r *resultsRepository) SaveRun(ctx context.Context, res *simulation.RunResult) error {
	configJSON, err := json.Marshal(res.Manifest.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal run config: %w", err)
	}
	breakdownJSON, err := json.Marshal(res.Mixture)
	if err != nil {
		return fmt.Errorf("failed to marshal mixture breakdown: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	runID := res.Manifest.RunID.String()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO simulation_runs (id, config, started_at, finished_at) VALUES ($1, $2, $3, $4)`,
		runID, configJSON, res.Manifest.StartedAt, res.Manifest.FinishedAt,
	); err != nil {
		return fmt.Errorf("failed to insert run %s: %w", runID, err)
	}

	for _, rec := range res.Coverage {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO coverage_records (run_id, distribution, n, coverage, avg_ci_width) VALUES ($1, $2, $3, $4, $5)`,
			runID, rec.Distribution, rec.N, rec.Coverage, rec.AvgCIWidth,
		); err != nil {
			return fmt.Errorf("failed to insert coverage record: %w", err)
		}
	}
	for _, rec := range res.Convergence {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO convergence_records (run_id, distribution, n, sample_mean, true_mean, absolute_error) VALUES ($1, $2, $3, $4, $5, $6)`,
			runID, rec.Distribution, rec.N, rec.SampleMean, rec.TrueMean, rec.AbsoluteError,
		); err != nil {
			return fmt.Errorf("failed to insert convergence record: %w", err)
		}
	}
	for _, rec := range res.Estimation {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO estimation_records (run_id, distribution, n, sample_mean, true_mean, mean_bias, sample_variance, true_variance, variance_error)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			runID, rec.Distribution, rec.N, rec.SampleMean, rec.TrueMean, rec.MeanBias, rec.SampleVariance, rec.TrueVariance, rec.VarianceError,
		); err != nil {
			return fmt.Errorf("failed to insert estimation record: %w", err)
		}
	}
	for _, rec := range res.Testing {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO testing_records (run_id, distribution, n, type_i_error) VALUES ($1, $2, $3, $4)`,
			runID, rec.Distribution, rec.N, rec.TypeIError,
		); err != nil {
			return fmt.Errorf("failed to insert testing record: %w", err)
		}
	}
	for _, rec := range res.Remediation {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO remediation_records (run_id, distribution, n, procedure, coverage, avg_ci_width) VALUES ($1, $2, $3, $4, $5, $6)`,
			runID, rec.Distribution, rec.N, rec.Procedure, rec.Coverage, rec.AvgCIWidth,
		); err != nil {
			return fmt.Errorf("failed to insert remediation record: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO mixture_breakdowns (run_id, breakdown) VALUES ($1, $2)`,
		runID, breakdownJSON,
	); err != nil {
		return fmt.Errorf("failed to insert mixture breakdown: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", runID, err)
	}
	return nil
}

// ListRuns returns stored run manifests, newest first.
func (r *resultsRepository) ListRuns(ctx context.Context, limit int) ([]simulation.RunManifest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, config, started_at, finished_at FROM simulation_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var manifests []simulation.RunManifest
	for rows.Next() {
		var m simulation.RunManifest
		var id string
		var configJSON []byte
		if err := rows.Scan(&id, &configJSON, &m.StartedAt, &m.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		m.RunID = core.RunID(id)
		if err := json.Unmarshal(configJSON, &m.Config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run config: %w", err)
		}
		manifests = append(manifests, m)
	}
	return manifests, rows.Err()
}

// DeleteRun removes a stored run; record tables cascade.
func (r *resultsRepository) DeleteRun(ctx context.Context, id core.RunID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM simulation_runs WHERE id = $1`, id.String()); err != nil {
		return fmt.Errorf("failed to delete run %s: %w", id, err)
	}
	return nil
}
