package store

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// DefaultNumShards is used when NewSharded is given a non-positive count.
const DefaultNumShards = 16

var _ Store = (*Sharded)(nil)

// Sharded is an unbounded store split into mutex-guarded shards.
// A key always lands on the shard picked by its xxhash.
type Sharded struct {
	shards []shard
}

type shard struct {
	mu sync.RWMutex
	m  map[string]any
}

func NewSharded(numShards int) *Sharded {
	if numShards <= 0 {
		numShards = DefaultNumShards
	}
	s := &Sharded{shards: make([]shard, numShards)}
	for i := range s.shards {
		s.shards[i].m = map[string]any{}
	}
	return s
}

func (s *Sharded) shardOf(key string) *shard {
	return &s.shards[xxhash.Sum64String(key)%uint64(len(s.shards))]
}

func (s *Sharded) Load(key string) (any, bool) {
	sh := s.shardOf(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	v, ok := sh.m[key]
	return v, ok
}

func (s *Sharded) InsertIfAbsent(key string, value any) (any, bool) {
	sh := s.shardOf(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if cur, ok := sh.m[key]; ok {
		return cur, true
	}
	sh.m[key] = value
	return value, false
}

func (s *Sharded) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		n += len(sh.m)
		sh.mu.RUnlock()
	}
	return n
}

func (s *Sharded) Clear() {
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		sh.m = map[string]any{}
		sh.mu.Unlock()
	}
}
