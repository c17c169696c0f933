package distributions

import (
	"gonum.org/v1/gonum/stat/distuv"

	"simlab/domain/core"
	"simlab/domain/simulation"
)

// StudentT generates location-0 Student-t samples. Heavy tails with finite
// variance at the reference nu=4.
type StudentT struct {
	Nu float64
}

// NewStudentT creates a Student-t generator. The true mean exists only for
// nu > 1 and the true variance only for nu > 2, so both are enforced here
// rather than silently computing an undefined moment downstream.
func NewStudentT(nu float64) (*StudentT, error) {
	if nu <= 1 {
		return nil, core.NewUndefinedMomentError("student_t", "mean", "nu > 1")
	}
	if nu <= 2 {
		return nil, core.NewUndefinedMomentError("student_t", "variance", "nu > 2")
	}
	return &StudentT{Nu: nu}, nil
}

// Descriptor returns the generator identity and true moments:
// mean = 0, variance = nu/(nu-2).
func (g *StudentT) Descriptor() simulation.DistributionDescriptor {
	return simulation.DistributionDescriptor{
		Kind:         simulation.DistStudentT,
		Params:       map[string]float64{"nu": g.Nu},
		TrueMean:     0,
		TrueVariance: g.Nu / (g.Nu - 2),
	}
}

// Generate draws n Student-t observations from a source seeded with seed.
func (g *StudentT) Generate(n int, seed int64) (simulation.Sample, error) {
	if n < 1 {
		return nil, core.NewGeneratorSizeError("student_t", n)
	}

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: g.Nu, Src: source(seed)}
	sample := make(simulation.Sample, n)
	for i := range sample {
		sample[i] = dist.Rand()
	}
	return sample, nil
}
