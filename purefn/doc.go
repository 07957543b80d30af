// Package purefn provides typed memoization for pure functions.
//
// Tableize is not just a utility to add memoization.
// Tableize is a tool that *forces the developer to ask*:
//
//	→ "Is this function really pure?"
//	→ "Can this computation be treated as a lazy table?"
//
// The Tableize family keeps the exact signature of the wrapped function:
//   - TableizeI1O1 to TableizeI4O1: one result, one to four inputs.
//   - TableizeI1O2 to TableizeI4O2: two results, one to four inputs.
//
// Inputs may be of any type that package canon can encode, including slices,
// maps and structs, so there is no comparable-or-Stringer restriction. Since
// the typed signatures have no error slot, an input without a canonical key
// (a function, a channel, a cyclic structure) makes the call panic with a
// *memo.SerializationError. Pass memo.WithPolicy(canon.BestEffort) to accept
// functions and channels by identity instead.
//
// The table is unbounded unless memo.WithMaxEntries is given.
//
//	var fib func(int) int
//	fib = purefn.TableizeI1O1(func(n int) int {
//	    if n <= 1 {
//	        return n
//	    }
//	    return fib(n-1) + fib(n-2)
//	})
//
// See tableize_test.go and tableize_bench_test.go for usage and benchmarks.
//
// WARNING: Do not use Tableize on impure functions (e.g., those depending on time, I/O, etc).
package purefn
