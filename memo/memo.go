package memo

import (
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/on-the-ground/memo_ive_go/canon"
	"github.com/on-the-ground/memo_ive_go/shared/helper"
	"github.com/on-the-ground/memo_ive_go/store"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Memoizer caches the results of a pure function by argument list.
// It is safe for concurrent use.
type Memoizer[O any] struct {
	id      string
	config  Config
	fn      func(args ...any) (O, error)
	store   store.Store
	encoder canon.Encoder
	logger  *zap.Logger
	group   singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
	errs   atomic.Uint64
}

// Stats is a snapshot of a Memoizer's counters.
type Stats struct {
	Hits    uint64 // calls answered without running the function
	Misses  uint64 // calls that ran the function
	Errors  uint64 // calls that failed, including serialization failures
	Entries int    // results currently held by the store
}

// New wraps fn. fn must be pure.
func New[O any](fn func(args ...any) O, opts ...Option) *Memoizer[O] {
	return NewE(func(args ...any) (O, error) {
		return fn(args...), nil
	}, opts...)
}

// NewE wraps a fallible fn. A non-nil error from fn is returned to the caller
// and the result is not cached, so the next call with the same arguments
// runs fn again.
func NewE[O any](fn func(args ...any) (O, error), opts ...Option) *Memoizer[O] {
	o := options{
		config: NewConfig(0, 0),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Memoizer[O]{
		id:      uuid.New().String(),
		config:  o.config,
		fn:      fn,
		store:   o.newStore(),
		encoder: canon.Encoder{Policy: o.config.Policy},
		logger:  o.logger,
	}
	m.logger.Debug("created memoizer",
		zap.String("memo_id", m.id),
		zap.String("name", m.config.Name),
		zap.Int("max_entries", m.config.MaxEntries),
		zap.Stringer("policy", m.config.Policy),
	)
	return m
}

// Memoize returns f' such that f'(args...) == f(args...), with f computed at
// most once per distinct argument list.
func Memoize[O any](fn func(args ...any) O, opts ...Option) func(args ...any) (O, error) {
	return New(fn, opts...).Call
}

// MemoizeE is Memoize for functions that can fail.
func MemoizeE[O any](fn func(args ...any) (O, error), opts ...Option) func(args ...any) (O, error) {
	return NewE(fn, opts...).Call
}

// ID returns the unique id of this Memoizer.
func (m *Memoizer[O]) ID() string {
	return m.id
}

// Call returns the cached result for args, computing it on a miss.
func (m *Memoizer[O]) Call(args ...any) (O, error) {
	var zero O

	key, err := m.encoder.Key(args...)
	if err != nil {
		m.errs.Add(1)
		m.logger.Debug("failed to build cache key", m.fields(key, zap.Error(err))...)
		return zero, err
	}

	if v, ok := m.store.Load(key); ok {
		m.hits.Add(1)
		m.logger.Debug("returning from cache", m.fields(key)...)
		return m.typed(v)
	}

	var v any
	if m.config.Singleflight {
		v, err = m.computeOnce(key, args)
	} else {
		v, err = m.compute(key, args)
	}
	if err != nil {
		m.errs.Add(1)
		return zero, err
	}
	return m.typed(v)
}

// computeOnce collapses concurrent misses on key into one call of fn.
func (m *Memoizer[O]) computeOnce(key string, args []any) (any, error) {
	ran := false
	v, err, _ := m.group.Do(key, func() (res any, err error) {
		ran = true
		defer func() {
			if r := recover(); r != nil {
				err = &panicked{value: r}
			}
		}()
		return m.compute(key, args)
	})

	var p *panicked
	if errors.As(err, &p) {
		panic(p.value)
	}
	if !ran && err == nil {
		m.hits.Add(1)
		m.logger.Debug("returning from shared computation", m.fields(key)...)
	}
	return v, err
}

func (m *Memoizer[O]) compute(key string, args []any) (any, error) {
	// A concurrent caller may have stored the result since the first Load.
	if v, ok := m.store.Load(key); ok {
		m.hits.Add(1)
		m.logger.Debug("returning from cache", m.fields(key)...)
		return v, nil
	}

	m.misses.Add(1)
	m.logger.Debug("calculating", m.fields(key)...)
	res, err := m.fn(args...)
	if err != nil {
		return nil, err
	}

	actual, loaded := m.store.InsertIfAbsent(key, res)
	if loaded {
		m.logger.Debug("keeping previously stored result", m.fields(key)...)
	}
	return actual, nil
}

func (m *Memoizer[O]) typed(v any) (O, error) {
	return helper.GetTypedValueOf[O](func() (any, error) {
		return v, nil
	})
}

func (m *Memoizer[O]) fields(key string, extra ...zap.Field) []zap.Field {
	return append([]zap.Field{
		zap.String("memo_id", m.id),
		zap.String("name", m.config.Name),
		zap.String("key", key),
	}, extra...)
}

// Stats returns the current counters.
func (m *Memoizer[O]) Stats() Stats {
	return Stats{
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
		Errors:  m.errs.Load(),
		Entries: m.store.Len(),
	}
}

// Reset drops every cached result and zeroes the counters.
func (m *Memoizer[O]) Reset() {
	m.store.Clear()
	m.hits.Store(0)
	m.misses.Store(0)
	m.errs.Store(0)
	m.logger.Debug("reset memoizer", zap.String("memo_id", m.id), zap.String("name", m.config.Name))
}
