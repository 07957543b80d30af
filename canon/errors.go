package canon

import (
	"errors"
	"fmt"
)

var (
	// ErrCyclicArgument is reported when an argument refers back to itself
	// through a pointer, map or slice.
	ErrCyclicArgument = errors.New("cyclic argument")

	// ErrUnserializable is reported under the Strict policy for values that
	// have no stable structural form (functions, channels, unsafe pointers).
	ErrUnserializable = errors.New("unserializable argument")
)

// SerializationError describes why an argument list could not be turned into
// a canonical key.
type SerializationError struct {
	ArgIndex int    // position of the offending argument
	Path     string // location inside that argument, e.g. "args[0].Next"
	Err      error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize %s: %v", e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
