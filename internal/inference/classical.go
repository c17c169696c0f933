// Package inference implements the interval and test procedures under
// evaluation: the classical normal-approximation baseline, the one-sample
// t-test, and the remedial variants that fix its known failure modes.
package inference

import (
	"math"

	"github.com/montanaflynn/stats"

	"simlab/domain/core"
	"simlab/domain/simulation"
)

// zCritical95 is the two-sided standard normal critical value at 95%.
const zCritical95 = 1.96

// NormalApproxInterval is the classical 95% confidence interval for the mean:
// sample mean +/- 1.96 * s / sqrt(n) with the unbiased (n-1) standard
// deviation. Under-covers the true mean for skewed or heavy-tailed data at
// small n; that miscalibration is the baseline behavior the harness measures,
// not a defect of this implementation.
type NormalApproxInterval struct{}

// NewNormalApproxInterval creates the classical interval procedure.
func NewNormalApproxInterval() *NormalApproxInterval {
	return &NormalApproxInterval{}
}

// Name identifies the procedure in result records.
func (p *NormalApproxInterval) Name() string {
	return "standard_95_ci"
}

// Interval computes the interval. Requires len(sample) >= 2; the sample
// standard deviation is undefined below that. A zero-variance sample yields a
// valid zero-width interval.
func (p *NormalApproxInterval) Interval(sample simulation.Sample, _ int64) (simulation.IntervalEstimate, error) {
	return p.estimate([]float64(sample))
}

func (p *NormalApproxInterval) estimate(data []float64) (simulation.IntervalEstimate, error) {
	n := len(data)
	if n < 2 {
		return simulation.IntervalEstimate{}, core.NewSampleSizeError(p.Name(), n, 2)
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return simulation.IntervalEstimate{}, err
	}
	sd, err := stats.StandardDeviationSample(data)
	if err != nil {
		return simulation.IntervalEstimate{}, err
	}

	margin := zCritical95 * sd / math.Sqrt(float64(n))
	return simulation.IntervalEstimate{Lower: mean - margin, Upper: mean + margin}, nil
}
