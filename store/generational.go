package store

import "sync"

var _ Store = (*Generational)(nil)

// Generational is a bounded store made of two generations.
//
// New entries go to the head generation. Once the head holds maxSize
// entries the old tail is dropped, the head becomes the tail and a fresh head
// starts. A key found only in the tail is promoted back into the head, so
// entries that keep getting hit survive rotations. At most 2*maxSize entries
// are held at any time.
type Generational struct {
	mu      sync.Mutex
	gens    [2]map[string]any
	headIdx int
	maxSize int
}

func NewGenerational(maxSize int) *Generational {
	if maxSize <= 0 {
		panic("maxSize should be greater than 0")
	}
	return &Generational{
		gens:    [2]map[string]any{{}, {}},
		maxSize: maxSize,
	}
}

func (g *Generational) Load(key string) (any, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.load(key)
}

func (g *Generational) load(key string) (any, bool) {
	if v, ok := g.gens[g.headIdx][key]; ok {
		return v, true
	}
	tail := g.gens[1-g.headIdx]
	v, ok := tail[key]
	if !ok {
		return nil, false
	}
	delete(tail, key)
	g.store(key, v)
	return v, true
}

func (g *Generational) store(key string, value any) {
	if len(g.gens[g.headIdx]) >= g.maxSize {
		g.headIdx = 1 - g.headIdx
		g.gens[g.headIdx] = map[string]any{}
	}
	g.gens[g.headIdx][key] = value
}

func (g *Generational) InsertIfAbsent(key string, value any) (any, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if cur, ok := g.load(key); ok {
		return cur, true
	}
	g.store(key, value)
	return value, false
}

func (g *Generational) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.gens[0]) + len(g.gens[1])
}

func (g *Generational) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gens = [2]map[string]any{{}, {}}
	g.headIdx = 0
}
