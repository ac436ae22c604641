package docgo

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrIDUnset is returned when an operation that requires a bound
	// document id is invoked on a record whose id was never assigned.
	ErrIDUnset = errors.New("document id not set")

	// ErrNilRecord is returned when a nil record pointer is passed to an
	// operation that needs to read or mutate record state.
	ErrNilRecord = errors.New("nil record")

	// ErrNotRegistered is returned when a type was never registered.
	ErrNotRegistered = errors.New("record type not registered")

	// ErrNoDatabase is returned when an operation runs before a database
	// has been bound via Use or a per-type database override.
	ErrNoDatabase = errors.New("no database bound")
)

// DefinitionError indicates an invalid record type definition. It is
// raised at registration time, never during CRUD operations.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type DefinitionError struct {
	Type   reflect.Type
	Reason string
	cause  error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("invalid record definition for %s: %s", e.Type, e.Reason)
}

func (e *DefinitionError) Unwrap() error { return e.cause }

// ValidationError indicates that a record's Validate hook rejected its
// field state, either after decoding a stored document or before a write.
//
// The hook's error is accessible via errors.Unwrap.
type ValidationError struct {
	Type  reflect.Type
	cause error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %v", e.Type, e.cause)
}

func (e *ValidationError) Unwrap() error { return e.cause }
