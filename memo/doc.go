// Package memo wraps pure functions so that each distinct argument list is
// computed at most once.
//
// A Memoizer owns its cache. The cache key is the canonical encoding of the
// ordered argument list (see package canon), so arguments that differ in
// type, value or order are cached separately, and a call with no arguments
// has a key of its own.
//
// Results are written once per key. Even when the wrapped function turns out
// to be non-deterministic, every later call with the same arguments returns
// the first result that was stored.
//
//	square := memo.Memoize(func(args ...any) int {
//	    n := args[0].(int)
//	    return n * n
//	})
//	v, err := square(5) // computes 25
//	v, err = square(5)  // returns 25 from the cache
//
// Errors returned by a MemoizeE function and panics raised by any wrapped
// function reach the caller unchanged and leave nothing behind in the cache.
// The only error the wrapper produces on its own is *SerializationError,
// raised before the function runs.
//
// WARNING: Do not memoize impure functions (e.g., those depending on time, I/O, etc).
package memo
