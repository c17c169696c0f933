package ports

import "simlab/domain/simulation"

// GeneratorPort produces samples from a data-generating process with
// analytically known moments.
//
// Generate must be deterministic: identical (n, seed) inputs yield
// bit-identical samples. Each call constructs its own seeded source; no
// mutable state is shared between calls or between generators.
type GeneratorPort interface {
	// Descriptor returns the generator's identity and true moments.
	Descriptor() simulation.DistributionDescriptor

	// Generate draws n observations using the given seed. n must be >= 1.
	Generate(n int, seed int64) (simulation.Sample, error)
}
