package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"simlab/domain/core"
	"simlab/domain/simulation"
)

func fixtureResult() *simulation.RunResult {
	return &simulation.RunResult{
		Manifest: simulation.RunManifest{
			RunID:      core.RunID("run-fixture"),
			Config:     simulation.DefaultGridConfig(),
			StartedAt:  time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
			FinishedAt: time.Date(2026, 8, 1, 10, 5, 0, 0, time.UTC),
		},
		Coverage: []simulation.CoverageRecord{
			{Distribution: simulation.DistNormal, N: 50, Coverage: 0.948, AvgCIWidth: 0.55},
			{Distribution: simulation.DistLognormal, N: 50, Coverage: 0.881, AvgCIWidth: 1.18},
		},
		Convergence: []simulation.ConvergenceRecord{
			{Distribution: simulation.DistNormal, N: 50, SampleMean: 0.03, TrueMean: 0, AbsoluteError: 0.03},
		},
		Estimation: []simulation.EstimationRecord{
			{Distribution: simulation.DistStudentT, N: 200, SampleMean: -0.01, TrueMean: 0, MeanBias: -0.01, SampleVariance: 1.9, TrueVariance: 2, VarianceError: -0.1},
		},
		Testing: []simulation.TestingRecord{
			{Distribution: simulation.DistNormal, N: 200, TypeIError: 0.051},
		},
		Remediation: []simulation.RemediationRecord{
			{Distribution: simulation.DistLognormal, N: 50, Procedure: "standard_95_ci", Coverage: 0.879, AvgCIWidth: 1.2},
			{Distribution: simulation.DistLognormal, N: 50, Procedure: "logspace_95_ci", Coverage: 0.941, AvgCIWidth: 1.31},
		},
		Mixture: simulation.MixtureBreakdown{
			N:              1200,
			Seed:           0,
			PooledMean:     0.02,
			PooledInterval: simulation.IntervalEstimate{Lower: -0.11, Upper: 0.15},
			Clusters: []simulation.ClusterInterval{
				{Mean: -1.97, Interval: simulation.IntervalEstimate{Lower: -2.05, Upper: -1.89}, Size: 600},
				{Mean: 2.01, Interval: simulation.IntervalEstimate{Lower: 1.93, Upper: 2.09}, Size: 600},
			},
		},
	}
}

func TestBuildReport(t *testing.T) {
	report := BuildReport(fixtureResult())

	assert.Contains(t, report, "run-fixture")
	assert.Contains(t, report, "| lognormal | 50 |")
	assert.Contains(t, report, "standard_95_ci")
	assert.Contains(t, report, "logspace_95_ci")
	assert.Contains(t, report, "0.9410")
	// Mixture narrative reports the pooled interval and both clusters.
	assert.Contains(t, report, "Pooled mean 0.0200")
	assert.Contains(t, report, "Cluster 1 (size 600)")
	assert.Contains(t, report, "Cluster 2 (size 600)")
}

func TestRenderHTML_ProducesTables(t *testing.T) {
	html := string(RenderHTML(fixtureResult()))
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "lognormal")
}

func TestMarkdownExporter_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report", "out.md")
	exp := NewMarkdownExporter(path)

	require.NoError(t, exp.Export(fixtureResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run-fixture")
}

func TestWorkbookExporter_WritesAllSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	exp := NewWorkbookExporter(path)

	require.NoError(t, exp.Export(fixtureResult()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	for _, want := range []string{"Coverage", "Convergence", "Estimation", "TypeIError", "Remediation"} {
		assert.Contains(t, sheets, want)
	}
	assert.NotContains(t, sheets, "Sheet1")

	rows, err := f.GetRows("Coverage")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "normal", rows[1][0])
	assert.Equal(t, "lognormal", rows[2][0])
}
