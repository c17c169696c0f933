package simulation

import "math"

// Sample is an ordered draw from exactly one generator invocation.
// It is immutable once produced: procedures read it, nothing writes it.
type Sample []float64

// Len returns the number of observations in the sample.
func (s Sample) Len() int { return len(s) }

// DistributionKind names one of the supported data-generating processes.
type DistributionKind string

const (
	DistNormal    DistributionKind = "normal"
	DistLognormal DistributionKind = "lognormal"
	DistStudentT  DistributionKind = "student_t"
	DistMixture   DistributionKind = "mixture"
)

// DistributionDescriptor identifies a generator together with its analytically
// known population moments.
// INVARIANT: TrueMean/TrueVariance must match the sampling law exactly, not be
// estimated from draws.
type DistributionDescriptor struct {
	Kind         DistributionKind `json:"kind"`
	Params       map[string]float64 `json:"params,omitempty"`
	TrueMean     float64          `json:"true_mean"`
	TrueVariance float64          `json:"true_variance"`
}

// IntervalEstimate is a (lower, upper) interval for a population parameter.
// INVARIANT: Lower <= Upper whenever the underlying dispersion estimate is
// finite and non-negative. A zero-width interval is valid output for
// degenerate (zero-variance) samples.
type IntervalEstimate struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Width returns the interval width.
func (ci IntervalEstimate) Width() float64 { return ci.Upper - ci.Lower }

// Covers reports whether the interval contains the value.
func (ci IntervalEstimate) Covers(v float64) bool {
	return ci.Lower <= v && v <= ci.Upper
}

// IsFinite reports whether both bounds are finite numbers.
func (ci IntervalEstimate) IsFinite() bool {
	return !math.IsNaN(ci.Lower) && !math.IsInf(ci.Lower, 0) &&
		!math.IsNaN(ci.Upper) && !math.IsInf(ci.Upper, 0)
}

// TestDecision is the outcome of a single hypothesis test.
type TestDecision struct {
	PValue float64 `json:"p_value"`
	Reject bool    `json:"reject"`
}
