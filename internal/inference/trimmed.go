package inference

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"simlab/domain/core"
	"simlab/domain/simulation"
)

// TrimmedMeanInterval centers the interval on a symmetrically trimmed mean
// while keeping the standard error of the full sample: trimmed_mean +/-
// 1.96 * s / sqrt(n). Robust to heavy tails because the extreme observations
// no longer move the center.
type TrimmedMeanInterval struct {
	Trim float64 // fraction discarded from each tail
}

// NewTrimmedMeanInterval creates the procedure with the given trim fraction.
func NewTrimmedMeanInterval(trim float64) *TrimmedMeanInterval {
	return &TrimmedMeanInterval{Trim: trim}
}

// Name identifies the procedure in result records.
func (p *TrimmedMeanInterval) Name() string {
	return "trimmed_mean_95_ci"
}

// Interval computes the estimate. Requires len(sample) >= 2 and a trim
// fraction that leaves at least one observation.
func (p *TrimmedMeanInterval) Interval(sample simulation.Sample, _ int64) (simulation.IntervalEstimate, error) {
	data := []float64(sample)
	n := len(data)
	if n < 2 {
		return simulation.IntervalEstimate{}, core.NewSampleSizeError(p.Name(), n, 2)
	}
	if p.Trim < 0 || p.Trim >= 0.5 {
		return simulation.IntervalEstimate{}, fmt.Errorf("trim fraction %g outside [0, 0.5)", p.Trim)
	}

	center, err := trimmedMean(data, p.Trim)
	if err != nil {
		return simulation.IntervalEstimate{}, err
	}
	sd, err := stats.StandardDeviationSample(data)
	if err != nil {
		return simulation.IntervalEstimate{}, err
	}

	margin := zCritical95 * sd / math.Sqrt(float64(n))
	return simulation.IntervalEstimate{Lower: center - margin, Upper: center + margin}, nil
}

// trimmedMean discards floor(trim*n) observations from each tail of the
// sorted sample and averages the remainder.
func trimmedMean(data []float64, trim float64) (float64, error) {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	k := int(trim * float64(len(sorted)))
	kept := sorted[k : len(sorted)-k]
	if len(kept) == 0 {
		return 0, fmt.Errorf("%w: trim fraction %g leaves no observations of %d", core.ErrInsufficientData, trim, len(data))
	}
	return stats.Mean(kept)
}
