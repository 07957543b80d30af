package store

import (
	"sync"

	ristretto "github.com/dgraph-io/ristretto/v2"
)

var _ Store = (*Ristretto)(nil)

// Ristretto is a bounded store with TinyLFU admission. Every entry costs 1,
// so maxEntries is the number of results kept. Admission may reject a new
// entry, in which case the value is returned to the caller but not kept.
type Ristretto struct {
	mu    sync.Mutex
	cache *ristretto.Cache[string, any]
}

func NewRistretto(maxEntries int64) (*Ristretto, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters:        10 * maxEntries,
		MaxCost:            maxEntries,
		BufferItems:        64,
		Metrics:            true,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &Ristretto{cache: cache}, nil
}

func (r *Ristretto) Load(key string) (any, bool) {
	return r.cache.Get(key)
}

func (r *Ristretto) InsertIfAbsent(key string, value any) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.cache.Get(key); ok {
		return cur, true
	}
	if !r.cache.Set(key, value, 1) {
		// Dropped by the set buffer; nothing was kept.
		return value, false
	}
	// Sets are buffered; wait so the next Load observes this one.
	r.cache.Wait()
	if cur, ok := r.cache.Get(key); ok {
		return cur, false
	}
	// Rejected by admission.
	return value, false
}

// Len is derived from the cache metrics and is approximate.
func (r *Ristretto) Len() int {
	m := r.cache.Metrics
	added, evicted := m.KeysAdded(), m.KeysEvicted()
	if evicted > added {
		return 0
	}
	return int(added - evicted)
}

func (r *Ristretto) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Clear()
}

// Close stops the cache's background goroutines.
func (r *Ristretto) Close() {
	r.cache.Close()
}
