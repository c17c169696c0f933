package ports

import "math/rand/v2"

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(name string, seed int64) (*rand.Rand, error)

	// Stream creates a deterministic RNG stream for a specific run/procedure/replicate.
	// This ensures bootstrap and clustering steps produce identical results for the
	// same replicate of the same run.
	Stream(runID, procedure, replicateKey string, baseSeed int64) (*rand.Rand, error)

	// ValidateSeed ensures the seed produces expected deterministic results
	ValidateSeed(name string, seed int64, expected []float64) error
}
