package helper

import (
	"errors"
	"fmt"
	"reflect"
)

var ErrUnexpectedType = errors.New("unexpected type")

// GetTypedValueOf safely asserts the result of a getter function to the expected type T.
// A nil result yields the zero T when T can hold nil, so interface and pointer
// results survive a round trip through an any-typed cache.
func GetTypedValueOf[T any](getFn func() (any, error)) (T, error) {
	var zero T

	res, err := getFn()
	if err != nil {
		return zero, fmt.Errorf("failed to get value: %w", err)
	}
	if res == nil {
		if t := reflect.TypeOf((*T)(nil)).Elem(); !nilable(t) {
			return zero, fmt.Errorf("%w: <nil>, want %v", ErrUnexpectedType, t)
		}
		return zero, nil
	}

	val, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T, want %T", ErrUnexpectedType, res, zero)
	}

	return val, nil
}

// MustGetTypedValue is the panic-on-failure variant of GetTypedValueOf.
// Use when failure should be fatal (e.g., when the value was produced by a typed function).
func MustGetTypedValue[T any](getFn func() (any, error)) T {
	res, err := GetTypedValueOf[T](getFn)
	if err != nil {
		panic(err)
	}
	return res
}

// Arg converts the i-th element of a variadic argument list back to T.
func Arg[T any](args []any, i int) T {
	return MustGetTypedValue[T](func() (any, error) {
		if i >= len(args) {
			return nil, fmt.Errorf("argument %d of %d is missing", i, len(args))
		}
		return args[i], nil
	})
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}
