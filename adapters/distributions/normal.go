package distributions

import (
	"gonum.org/v1/gonum/stat/distuv"

	"simlab/domain/core"
	"simlab/domain/simulation"
)

// Normal generates standard normal samples. The well-behaved baseline every
// procedure is calibrated against.
type Normal struct{}

// NewNormal creates a standard normal generator.
func NewNormal() *Normal {
	return &Normal{}
}

// Descriptor returns the generator identity and true moments.
func (g *Normal) Descriptor() simulation.DistributionDescriptor {
	return simulation.DistributionDescriptor{
		Kind:         simulation.DistNormal,
		Params:       map[string]float64{"mu": 0, "sigma": 1},
		TrueMean:     0,
		TrueVariance: 1,
	}
}

// Generate draws n standard normal observations from a source seeded with seed.
func (g *Normal) Generate(n int, seed int64) (simulation.Sample, error) {
	if n < 1 {
		return nil, core.NewGeneratorSizeError("normal", n)
	}

	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: source(seed)}
	sample := make(simulation.Sample, n)
	for i := range sample {
		sample[i] = dist.Rand()
	}
	return sample, nil
}
