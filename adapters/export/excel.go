// Package export renders finished runs for human consumption: an Excel
// workbook with one worksheet per experiment, and a markdown report.
package export

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"simlab/domain/simulation"
	"simlab/internal/errors"
)

// WorkbookExporter writes every record table of a run to an .xlsx workbook.
type WorkbookExporter struct {
	Path string
}

// NewWorkbookExporter creates the exporter for the given output path.
func NewWorkbookExporter(path string) *WorkbookExporter {
	return &WorkbookExporter{Path: path}
}

// Export writes the workbook.
func (e *WorkbookExporter) Export(res *simulation.RunResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeCoverage(f, res.Coverage); err != nil {
		return errors.Wrap(err, "writing coverage sheet")
	}
	if err := e.writeConvergence(f, res.Convergence); err != nil {
		return errors.Wrap(err, "writing convergence sheet")
	}
	if err := e.writeEstimation(f, res.Estimation); err != nil {
		return errors.Wrap(err, "writing estimation sheet")
	}
	if err := e.writeTesting(f, res.Testing); err != nil {
		return errors.Wrap(err, "writing testing sheet")
	}
	if err := e.writeRemediation(f, res.Remediation); err != nil {
		return errors.Wrap(err, "writing remediation sheet")
	}

	// The default sheet is replaced by the first experiment sheet.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.Wrap(err, "removing default sheet")
	}

	if err := os.MkdirAll(filepath.Dir(e.Path), 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}
	if err := f.SaveAs(e.Path); err != nil {
		return errors.Wrapf(err, "saving workbook %s", e.Path)
	}
	return nil
}

func (e *WorkbookExporter) writeCoverage(f *excelize.File, records []simulation.CoverageRecord) error {
	sheet := "Coverage"
	if err := writeHeader(f, sheet, []string{"distribution", "n", "coverage", "avg_ci_width"}); err != nil {
		return err
	}
	for i, rec := range records {
		if err := writeRow(f, sheet, i+2, rec.Distribution, rec.N, rec.Coverage, rec.AvgCIWidth); err != nil {
			return err
		}
	}
	return nil
}

func (e *WorkbookExporter) writeConvergence(f *excelize.File, records []simulation.ConvergenceRecord) error {
	sheet := "Convergence"
	if err := writeHeader(f, sheet, []string{"distribution", "n", "sample_mean", "true_mean", "absolute_error"}); err != nil {
		return err
	}
	for i, rec := range records {
		if err := writeRow(f, sheet, i+2, rec.Distribution, rec.N, rec.SampleMean, rec.TrueMean, rec.AbsoluteError); err != nil {
			return err
		}
	}
	return nil
}

func (e *WorkbookExporter) writeEstimation(f *excelize.File, records []simulation.EstimationRecord) error {
	sheet := "Estimation"
	header := []string{"distribution", "n", "sample_mean", "true_mean", "mean_bias", "sample_variance", "true_variance", "variance_error"}
	if err := writeHeader(f, sheet, header); err != nil {
		return err
	}
	for i, rec := range records {
		if err := writeRow(f, sheet, i+2, rec.Distribution, rec.N, rec.SampleMean, rec.TrueMean, rec.MeanBias, rec.SampleVariance, rec.TrueVariance, rec.VarianceError); err != nil {
			return err
		}
	}
	return nil
}

func (e *WorkbookExporter) writeTesting(f *excelize.File, records []simulation.TestingRecord) error {
	sheet := "TypeIError"
	if err := writeHeader(f, sheet, []string{"distribution", "n", "type_i_error"}); err != nil {
		return err
	}
	for i, rec := range records {
		if err := writeRow(f, sheet, i+2, rec.Distribution, rec.N, rec.TypeIError); err != nil {
			return err
		}
	}
	return nil
}

func (e *WorkbookExporter) writeRemediation(f *excelize.File, records []simulation.RemediationRecord) error {
	sheet := "Remediation"
	if err := writeHeader(f, sheet, []string{"distribution", "n", "procedure", "coverage", "avg_ci_width"}); err != nil {
		return err
	}
	for i, rec := range records {
		if err := writeRow(f, sheet, i+2, rec.Distribution, rec.N, rec.Procedure, rec.Coverage, rec.AvgCIWidth); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, columns []string) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	for col, name := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, normalize(v)); err != nil {
			return err
		}
	}
	return nil
}

// normalize converts domain types to plain scalars excelize understands.
func normalize(v interface{}) interface{} {
	if kind, ok := v.(simulation.DistributionKind); ok {
		return string(kind)
	}
	return v
}
