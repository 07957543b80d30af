// Package store holds the key/value tables behind a memoizer.
//
// Every Store is write-once per key: InsertIfAbsent never replaces a value
// that is already present and reports the value that won instead. Bounded
// stores may still drop entries; a dropped key is simply absent again.
package store

// Store is a concurrency-safe table from canonical keys to results.
type Store interface {
	// Load returns the value stored under key, if any.
	Load(key string) (value any, ok bool)

	// InsertIfAbsent stores value under key unless the key is already
	// present. It returns the value now associated with key and whether it
	// was already there. A bounded store may decline to keep a new value:
	// actual is then value itself with loaded false, and a later Load may
	// miss. A value that is kept is never replaced.
	InsertIfAbsent(key string, value any) (actual any, loaded bool)

	// Len returns the number of entries currently held.
	Len() int

	// Clear removes every entry.
	Clear()
}
