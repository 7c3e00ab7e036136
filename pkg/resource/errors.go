package resource

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation matches every *ValidationError via errors.Is
	ErrValidation = errors.New("validation failed")

	// ErrNotImplemented is returned by operations that exist on a facade
	// but have no docker command contract behind them yet
	ErrNotImplemented = errors.New("not implemented")
)

// NotImplemented returns ErrNotImplemented wrapped with the operation name
func NotImplemented(op string) error {
	return fmt.Errorf("%s: %w", op, ErrNotImplemented)
}

// FieldError is one problem found while decoding a record
type FieldError struct {
	Path    string // dotted wire path, empty for the record itself
	Problem string
}

func (f FieldError) String() string {
	if f.Path == "" {
		return f.Problem
	}
	return f.Path + ": " + f.Problem
}

// ValidationError reports docker output that does not match the expected
// record shape. No partial record accompanies it.
type ValidationError struct {
	Record   string
	Problems []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return fmt.Sprintf("invalid %s: %s", e.Record, strings.Join(parts, "; "))
}

// Is implements errors.Is interface
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
