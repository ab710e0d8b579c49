package indirect

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCycle is returned when a field's definition transitively reads the
	// field itself before it has produced a value.
	ErrCycle = errors.New("cyclic field definition")

	// ErrUnknownField is returned when a definition reads a key that is not
	// part of the definition set.
	ErrUnknownField = errors.New("unknown field")

	// ErrDuplicateField is returned by Resolve when the same key was
	// defined more than once.
	ErrDuplicateField = errors.New("duplicate field definition")

	// ErrNilDefinition is returned by Resolve when a key was defined with a
	// nil function.
	ErrNilDefinition = errors.New("nil field definition")
)

// CycleError describes a dependency cycle found during resolution.
// Path starts and ends with the same key.
type CycleError[K comparable] struct {
	Path []K
}

func (e *CycleError[K]) Error() string {
	parts := make([]string, len(e.Path))
	for i, k := range e.Path {
		parts[i] = fmt.Sprint(k)
	}
	return fmt.Sprintf("%s: %s", ErrCycle, strings.Join(parts, " → "))
}

func (e *CycleError[K]) Unwrap() error { return ErrCycle }

// AsCycleError returns the *CycleError in err's chain, or nil.
func AsCycleError[K comparable](err error) *CycleError[K] {
	var ce *CycleError[K]
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}

// UnknownFieldError reports a read of a key outside the definition set.
type UnknownFieldError[K comparable] struct {
	Key K
}

func (e *UnknownFieldError[K]) Error() string {
	return fmt.Sprintf("%s: %v", ErrUnknownField, e.Key)
}

func (e *UnknownFieldError[K]) Unwrap() error { return ErrUnknownField }

// FieldError wraps an error returned by the definition of Key.
type FieldError[K comparable] struct {
	Key K
	Err error
}

func (e *FieldError[K]) Error() string {
	return fmt.Sprintf("field %v: %v", e.Key, e.Err)
}

func (e *FieldError[K]) Unwrap() error { return e.Err }

// TypeError is returned by [Get] when a field holds a value of another type.
type TypeError[K comparable] struct {
	Key  K
	Want string
	Got  any
}

func (e *TypeError[K]) Error() string {
	return fmt.Sprintf("field %v: want %s, got %T", e.Key, e.Want, e.Got)
}

// attributed reports whether err already names the field it came from, so
// outer fields propagating it do not wrap it again.
func attributed[K comparable](err error) bool {
	var fe *FieldError[K]
	var ce *CycleError[K]
	return errors.As(err, &fe) || errors.As(err, &ce)
}
