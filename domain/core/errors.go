package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors
	ErrConfigInvalid    = errors.New("invalid specification config")
	ErrMissingKey       = fmt.Errorf("%w: missing required key", ErrConfigInvalid)
	ErrUnsupportedKey   = fmt.Errorf("%w: unsupported key", ErrConfigInvalid)
	ErrUnsupportedModel = fmt.Errorf("%w: unsupported model type", ErrConfigInvalid)

	// Dataset errors
	ErrColumnMissing = errors.New("column not present in dataset")
	ErrRaggedFrame   = errors.New("frame columns have unequal lengths")

	// Specification errors
	ErrEmptyFormula     = errors.New("at least one right-hand-side term is required")
	ErrYearDropTooLarge = errors.New("cannot drop more years than exist in the dataset")

	// Fitting errors
	ErrFitFailed        = errors.New("regression fit failed")
	ErrInsufficientData = errors.New("insufficient observations for regression")
)

// Error constructors with context
func NewMissingKeyError(key string) error {
	return fmt.Errorf("%w: %s", ErrMissingKey, key)
}

func NewUnsupportedKeyError(keys []string) error {
	return fmt.Errorf("%w: %v", ErrUnsupportedKey, keys)
}

func NewColumnMissingError(column string) error {
	return fmt.Errorf("%w: %q", ErrColumnMissing, column)
}

func NewYearDropError(requested, available int) error {
	return fmt.Errorf("%w: attempted to drop %d of %d years", ErrYearDropTooLarge, requested, available)
}

func NewFitError(formula string, cause error) error {
	return fmt.Errorf("%w for %q: %v", ErrFitFailed, formula, cause)
}

// Error checking helpers
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigInvalid)
}

func IsDatasetError(err error) bool {
	return errors.Is(err, ErrColumnMissing) || errors.Is(err, ErrRaggedFrame)
}

func IsFitError(err error) bool {
	return errors.Is(err, ErrFitFailed) || errors.Is(err, ErrInsufficientData)
}
