package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors: the inputs or settings are unusable as given.
	ErrConfiguration       = errors.New("configuration error")
	ErrUnknownCorrection   = fmt.Errorf("%w: unknown correction method", ErrConfiguration)
	ErrNoVarianceInfo      = fmt.Errorf("%w: no explained-variance information available", ErrConfiguration)
	ErrLabelFieldMissing   = fmt.Errorf("%w: label field absent from metadata store", ErrConfiguration)
	ErrAmbiguousClassNames = fmt.Errorf("%w: class names collide after sanitization", ErrConfiguration)

	// Data-shape errors: structurally inconsistent inputs.
	ErrDataShape    = errors.New("data shape error")
	ErrRowMismatch  = fmt.Errorf("%w: embedding rows do not match label length", ErrDataShape)
	ErrClassAbsent  = fmt.Errorf("%w: positive class absent from label levels", ErrDataShape)
	ErrEmptyMatrix  = fmt.Errorf("%w: embedding has no data", ErrDataShape)
	ErrRaggedMatrix = fmt.Errorf("%w: embedding rows have unequal lengths", ErrDataShape)
)

// Error constructors with context
func NewConfigurationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, reason)
}

func NewDataShapeError(reason string) error {
	return fmt.Errorf("%w: %s", ErrDataShape, reason)
}

func NewRowMismatchError(rows, labels int) error {
	return fmt.Errorf("%w: %d rows vs %d labels", ErrRowMismatch, rows, labels)
}

func NewClassAbsentError(class ClassName) error {
	return fmt.Errorf("%w: %q", ErrClassAbsent, class)
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsDataShapeError(err error) bool {
	return errors.Is(err, ErrDataShape)
}
