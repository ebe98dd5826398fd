package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexBuild signals that the similarity index could not be built.
	// Fatal at startup: the index must never enter a usable state after it.
	ErrIndexBuild = errors.New("index build failed")
	// ErrEmptyCorpus signals an empty reference corpus.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrInconsistentCorpus signals corpus records with mismatched schemas.
	ErrInconsistentCorpus = errors.New("inconsistent corpus")
	// ErrVectorization signals a record that cannot be vectorized.
	// Fails the single request only; shared state stays untouched.
	ErrVectorization = errors.New("vectorization failed")
)

// IndexBuildError wraps ErrIndexBuild with the underlying cause.
type IndexBuildError struct {
	Cause error
}

func (e *IndexBuildError) Error() string {
	return fmt.Sprintf("%s: %v", ErrIndexBuild.Error(), e.Cause)
}

func (e *IndexBuildError) Unwrap() []error { return []error{ErrIndexBuild, e.Cause} }

// NewIndexBuildError creates an index build error around a cause.
func NewIndexBuildError(cause error) error {
	return &IndexBuildError{Cause: cause}
}

// VectorizationError wraps ErrVectorization with the offending field.
type VectorizationError struct {
	Field string
	Cause error
}

func (e *VectorizationError) Error() string {
	return fmt.Sprintf("%s: field %q: %v", ErrVectorization.Error(), e.Field, e.Cause)
}

func (e *VectorizationError) Unwrap() []error { return []error{ErrVectorization, e.Cause} }

// NewVectorizationError creates a vectorization error for a field.
func NewVectorizationError(field string, cause error) error {
	return &VectorizationError{Field: field, Cause: cause}
}
