package memo

import (
	"errors"
	"fmt"

	"github.com/on-the-ground/memo_ive_go/canon"
)

// SerializationError is returned when the argument list has no canonical key.
type SerializationError = canon.SerializationError

var (
	ErrCyclicArgument = canon.ErrCyclicArgument
	ErrUnserializable = canon.ErrUnserializable

	ErrInvalidConfig = errors.New("invalid memo config")
)

// panicked carries a panic raised by the wrapped function across the
// singleflight boundary so it can be re-raised with its original value.
type panicked struct {
	value any
}

func (p *panicked) Error() string {
	return fmt.Sprintf("memoized function panicked: %v", p.value)
}
