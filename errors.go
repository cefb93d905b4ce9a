package nanocube

import (
	"errors"
	"fmt"
)

// ErrUnknownName is the common base of query errors caused by a filter or
// measure referencing a name not present in the schema. Use errors.Is to
// detect it regardless of the concrete error type.
var ErrUnknownName = errors.New("unknown name")

// BuildError indicates that a column was incompatible with its declared
// role during construction. Construction aborts; there is no partial index.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type BuildError struct {
	Column string
	cause  error
}

func (e *BuildError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("build failed on column %q: %v", e.Column, e.cause)
	}
	return fmt.Sprintf("build failed: %v", e.cause)
}

func (e *BuildError) Unwrap() error { return e.cause }

// ErrUnknownDimension indicates a filter referencing a dimension that does
// not exist. Note that an unknown member of a known dimension is NOT an
// error: it resolves to the empty row set.
type ErrUnknownDimension struct {
	Name string
}

func (e *ErrUnknownDimension) Error() string {
	return fmt.Sprintf("unknown dimension %q", e.Name)
}

func (e *ErrUnknownDimension) Unwrap() error { return ErrUnknownName }

// ErrUnknownMeasure indicates a query requesting a measure that does not
// exist.
type ErrUnknownMeasure struct {
	Name string
}

func (e *ErrUnknownMeasure) Error() string {
	return fmt.Sprintf("unknown measure %q", e.Name)
}

func (e *ErrUnknownMeasure) Unwrap() error { return ErrUnknownName }
