package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Sampling errors
	ErrInvalidSampleSize = errors.New("invalid sample size")
	ErrUndefinedMoment   = errors.New("moment undefined for parameterization")

	// Procedure precondition errors
	ErrInsufficientData  = errors.New("insufficient data for procedure")
	ErrNonPositiveSample = errors.New("sample contains non-positive values")
	ErrDegenerateCluster = errors.New("cluster assignment produced an unusable group")

	// Determinism errors
	ErrNonDeterministic = errors.New("non-deterministic result")
	ErrSeedMismatch     = errors.New("seed mismatch")
)

// NewSampleSizeError reports a sample size that violates a procedure precondition.
func NewSampleSizeError(procedure string, n, min int) error {
	return fmt.Errorf("%w: %s requires n >= %d, got %d", ErrInsufficientData, procedure, min, n)
}

// NewGeneratorSizeError reports an invalid requested draw size.
func NewGeneratorSizeError(generator string, n int) error {
	return fmt.Errorf("%w: %s requires n >= 1, got %d", ErrInvalidSampleSize, generator, n)
}

// NewUndefinedMomentError reports a parameterization whose true moment has no
// finite closed form (e.g. Student-t variance at nu <= 2).
func NewUndefinedMomentError(generator, moment, constraint string) error {
	return fmt.Errorf("%w: %s %s requires %s", ErrUndefinedMoment, generator, moment, constraint)
}
