package store_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/on-the-ground/memo_ive_go/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStores(t *testing.T) map[string]store.Store {
	t.Helper()
	lru, err := store.NewLRU(64)
	require.NoError(t, err)
	mdb, err := store.NewMemDB()
	require.NoError(t, err)
	rist, err := store.NewRistretto(1024)
	require.NoError(t, err)
	t.Cleanup(rist.Close)

	return map[string]store.Store{
		"sharded":      store.NewSharded(0),
		"generational": store.NewGenerational(64),
		"lru":          lru,
		"memdb":        mdb,
		"ristretto":    rist,
	}
}

func TestStore_WriteOnce(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok := s.Load("k")
			assert.False(t, ok)

			actual, loaded := s.InsertIfAbsent("k", 1)
			assert.False(t, loaded)
			assert.Equal(t, 1, actual)

			actual, loaded = s.InsertIfAbsent("k", 2)
			assert.True(t, loaded)
			assert.Equal(t, 1, actual)

			v, ok := s.Load("k")
			assert.True(t, ok)
			assert.Equal(t, 1, v)
			assert.Equal(t, 1, s.Len())
		})
	}
}

func TestStore_NilValue(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			s.InsertIfAbsent("nil", nil)
			v, ok := s.Load("nil")
			assert.True(t, ok)
			assert.Nil(t, v)
		})
	}
}

func TestStore_Clear(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 10; i++ {
				s.InsertIfAbsent(fmt.Sprintf("k%d", i), i)
			}
			assert.Equal(t, 10, s.Len())

			s.Clear()
			assert.Equal(t, 0, s.Len())
			_, ok := s.Load("k3")
			assert.False(t, ok)

			actual, loaded := s.InsertIfAbsent("k3", "again")
			assert.False(t, loaded)
			assert.Equal(t, "again", actual)
		})
	}
}

func TestStore_ConcurrentInsertIfAbsent(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			const workers = 32
			var wg sync.WaitGroup
			winners := make([]any, workers)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					winners[i], _ = s.InsertIfAbsent("race", i)
				}(i)
			}
			wg.Wait()

			stored, ok := s.Load("race")
			require.True(t, ok)
			for _, w := range winners {
				assert.Equal(t, stored, w)
			}
		})
	}
}

func TestSharded_SpreadsKeys(t *testing.T) {
	s := store.NewSharded(8)
	for i := 0; i < 1000; i++ {
		s.InsertIfAbsent(fmt.Sprintf("key-%d", i), i)
	}
	assert.Equal(t, 1000, s.Len())
	for i := 0; i < 1000; i += 97 {
		v, ok := s.Load(fmt.Sprintf("key-%d", i))
		assert.True(t, ok)
		assert.Equal(t, i, v)
	}
}

func TestGenerational_Rotation(t *testing.T) {
	g := store.NewGenerational(2)

	g.InsertIfAbsent("a", 1)
	g.InsertIfAbsent("b", 2)
	g.InsertIfAbsent("c", 3) // head {c}, tail {a, b}
	assert.Equal(t, 3, g.Len())

	// A tail hit is promoted into the head.
	v, ok := g.Load("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	g.InsertIfAbsent("d", 4) // head {d}, tail {c, a}; b is dropped
	_, ok = g.Load("b")
	assert.False(t, ok)
	for _, k := range []string{"a", "c", "d"} {
		_, ok := g.Load(k)
		assert.True(t, ok, k)
	}
	assert.LessOrEqual(t, g.Len(), 4)
}

func TestGenerational_ZeroSizePanics(t *testing.T) {
	assert.Panics(t, func() {
		store.NewGenerational(0)
	})
}

func TestLRU_Evicts(t *testing.T) {
	l, err := store.NewLRU(2)
	require.NoError(t, err)

	l.InsertIfAbsent("a", 1)
	l.InsertIfAbsent("b", 2)
	_, _ = l.Load("a")
	l.InsertIfAbsent("c", 3)

	_, ok := l.Load("b")
	assert.False(t, ok)
	_, ok = l.Load("a")
	assert.True(t, ok)
	assert.Equal(t, 2, l.Len())
}

func TestLRU_InvalidSize(t *testing.T) {
	_, err := store.NewLRU(0)
	assert.Error(t, err)
}

func TestRistretto_InvalidSize(t *testing.T) {
	_, err := store.NewRistretto(0)
	assert.Error(t, err)
}

func TestStore_DeclinedInsertReturnsOwnValue(t *testing.T) {
	r, err := store.NewRistretto(4)
	require.NoError(t, err)
	t.Cleanup(r.Close)

	for name, s := range map[string]store.Store{
		"generational": store.NewGenerational(4),
		"ristretto":    r,
	} {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i)
				actual, loaded := s.InsertIfAbsent(key, i)
				require.False(t, loaded, key)
				assert.Equal(t, i, actual, key)

				if v, ok := s.Load(key); ok {
					assert.Equal(t, i, v, key)
				}
			}
		})
	}
}

func TestMemDB_Len(t *testing.T) {
	s, err := store.NewMemDB()
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	for i := 0; i < 5; i++ {
		s.InsertIfAbsent(fmt.Sprintf("k%d", i), i)
	}
	s.InsertIfAbsent("k0", "dup")
	assert.Equal(t, 5, s.Len())
}
