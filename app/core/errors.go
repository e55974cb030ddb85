package core

import (
	"errors"
	"fmt"

	"github.com/go-stack/stack"
	"github.com/lpenlpen/atlas/trace"
)

var (
	// ErrInvalidDimension is returned when a viewport or content size has a
	// zero, negative or non-finite component.
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrMissingAsset is returned when a referenced image cannot be loaded.
	ErrMissingAsset = errors.New("missing asset")

	// ErrMissingMap is returned when a map id does not resolve.
	ErrMissingMap = errors.New("missing map")

	// ErrMeasurement is returned when text cannot be laid out.
	ErrMeasurement = errors.New("text measurement failed")

	// ErrEmptyProject is returned when a store holds no maps at all.
	ErrEmptyProject = errors.New("project has no maps")

	// ErrIDRange is returned when an id does not fit the SQLite integer type.
	ErrIDRange = errors.New("id out of range")
)

// StoreError wraps a persistence failure with the call stack where it
// happened.
type StoreError struct {
	Op    string
	Path  string
	Err   error
	Stack stack.CallStack
}

func newStoreError(op, path string, err error) *StoreError {
	cs := trace.Trace()
	if len(cs) > 1 {
		cs = cs[1:]
	}
	return &StoreError{Op: op, Path: path, Err: err, Stack: cs}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
