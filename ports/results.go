package ports

import (
	"context"

	"simlab/domain/core"
	"simlab/domain/simulation"
)

// ResultsRepositoryPort persists completed runs. The core never reads these
// back; persistence exists so runs can be compared across code versions.
type ResultsRepositoryPort interface {
	// SaveRun stores the manifest and every record table of a finished run.
	SaveRun(ctx context.Context, res *simulation.RunResult) error

	// ListRuns returns the manifests of stored runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]simulation.RunManifest, error)

	// DeleteRun removes a stored run and its records.
	DeleteRun(ctx context.Context, id core.RunID) error
}

// ReportExporterPort renders a finished run for human consumption.
type ReportExporterPort interface {
	// Export writes the run to the exporter's configured destination.
	Export(res *simulation.RunResult) error
}
