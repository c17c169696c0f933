package distributions

import (
	"gonum.org/v1/gonum/stat/distuv"

	"simlab/domain/core"
	"simlab/domain/simulation"
)

// Mixture generates a bimodal half-and-half Gaussian mixture: N(-2, 1) and
// N(+2, 1). Genuinely two populations, so a single pooled mean is misleading.
type Mixture struct {
	Loc1  float64
	Loc2  float64
	Scale float64
}

// NewMixture creates the reference mixture generator.
func NewMixture() *Mixture {
	return &Mixture{Loc1: -2, Loc2: 2, Scale: 1}
}

// Descriptor returns the generator identity and true moments. For the
// equal-weight mixture the mean is the midpoint of the component locations
// and the variance is the within-component variance plus the mean squared
// distance of the locations from that midpoint (1 + 4 = 5 at the defaults).
func (g *Mixture) Descriptor() simulation.DistributionDescriptor {
	mean := (g.Loc1 + g.Loc2) / 2
	d1 := g.Loc1 - mean
	d2 := g.Loc2 - mean
	between := (d1*d1 + d2*d2) / 2
	return simulation.DistributionDescriptor{
		Kind:         simulation.DistMixture,
		Params:       map[string]float64{"loc1": g.Loc1, "loc2": g.Loc2, "scale": g.Scale, "weight": 0.5},
		TrueMean:     mean,
		TrueVariance: g.Scale*g.Scale + between,
	}
}

// Generate draws n observations: floor(n/2) from the first component followed
// by the remainder from the second, all from one seeded source. The split is
// fixed (not resampled per draw) so the output is deterministic; for n=1 the
// single value comes from the second component, which receives the extra
// element whenever n is odd.
func (g *Mixture) Generate(n int, seed int64) (simulation.Sample, error) {
	if n < 1 {
		return nil, core.NewGeneratorSizeError("mixture", n)
	}

	src := source(seed)
	first := distuv.Normal{Mu: g.Loc1, Sigma: g.Scale, Src: src}
	second := distuv.Normal{Mu: g.Loc2, Sigma: g.Scale, Src: src}

	n1 := n / 2
	sample := make(simulation.Sample, 0, n)
	for i := 0; i < n1; i++ {
		sample = append(sample, first.Rand())
	}
	for i := n1; i < n; i++ {
		sample = append(sample, second.Rand())
	}
	return sample, nil
}

// ComponentSizes reports the deterministic split used for a draw of size n.
func (g *Mixture) ComponentSizes(n int) (int, int) {
	return n / 2, n - n/2
}
