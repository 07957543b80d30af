package store

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

var _ Store = (*LRU)(nil)

// LRU is a bounded store that evicts the least recently used key.
type LRU struct {
	cache *lru.Cache[string, any]
}

func NewLRU(size int) (*LRU, error) {
	c, err := lru.New[string, any](size)
	if err != nil {
		return nil, err
	}
	return &LRU{cache: c}, nil
}

func (l *LRU) Load(key string) (any, bool) {
	return l.cache.Get(key)
}

func (l *LRU) InsertIfAbsent(key string, value any) (any, bool) {
	prev, ok, _ := l.cache.PeekOrAdd(key, value)
	if ok {
		return prev, true
	}
	return value, false
}

func (l *LRU) Len() int {
	return l.cache.Len()
}

func (l *LRU) Clear() {
	l.cache.Purge()
}
