package memo

import (
	"fmt"
	"strconv"

	"github.com/on-the-ground/memo_ive_go/canon"
	"github.com/on-the-ground/memo_ive_go/memo/configkeys"
	"github.com/on-the-ground/memo_ive_go/store"
	"go.uber.org/zap"
)

// Config holds the tunables of a Memoizer.
type Config struct {
	Name         string       // shows up in log fields
	MaxEntries   int          // 0: unbounded; otherwise a generational store of this size
	NumShards    int          // shards of the unbounded store; default: store.DefaultNumShards
	Policy       canon.Policy // default: canon.Strict
	Singleflight bool         // default: true
}

func NewConfig(maxEntries int, numShards int) Config {
	if maxEntries < 0 {
		maxEntries = 0
	}
	if numShards <= 0 {
		numShards = store.DefaultNumShards
	}
	return Config{
		MaxEntries:   maxEntries,
		NumShards:    numShards,
		Policy:       canon.Strict,
		Singleflight: true,
	}
}

type options struct {
	config Config
	store  store.Store
	logger *zap.Logger
}

func (o options) newStore() store.Store {
	if o.store != nil {
		return o.store
	}
	if o.config.MaxEntries > 0 {
		return store.NewGenerational(o.config.MaxEntries)
	}
	return store.NewSharded(o.config.NumShards)
}

// Option configures a Memoizer.
type Option func(*options)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithStore makes the Memoizer keep its results in s.
// It takes precedence over WithMaxEntries and WithShards.
func WithStore(s store.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithLogger sets the logger used for hit and miss traces.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithName(name string) Option {
	return func(o *options) {
		o.config.Name = name
	}
}

// WithPolicy chooses how unserializable arguments are treated.
func WithPolicy(p canon.Policy) Option {
	return func(o *options) {
		o.config.Policy = p
	}
}

// WithMaxEntries bounds the cache. Entries beyond the bound are eventually
// dropped and recomputed on their next call.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		o.config.MaxEntries = n
	}
}

func WithShards(n int) Option {
	return func(o *options) {
		o.config.NumShards = n
	}
}

// WithoutSingleflight lets concurrent misses on one key compute in parallel.
// The first result stored still wins.
func WithoutSingleflight() Option {
	return func(o *options) {
		o.config.Singleflight = false
	}
}

// LoadConfig builds a Config from flat key/value settings named after the
// constants in package configkeys. Missing keys keep their defaults.
func LoadConfig(values map[string]string) (Config, error) {
	var maxEntries, numShards int
	var err error
	if v, ok := values[configkeys.ConfigMemoStoreMaxEntries]; ok {
		if maxEntries, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, configkeys.ConfigMemoStoreMaxEntries, err)
		}
		if maxEntries < 0 {
			return Config{}, fmt.Errorf("%w: %s: must not be negative", ErrInvalidConfig, configkeys.ConfigMemoStoreMaxEntries)
		}
	}
	if v, ok := values[configkeys.ConfigMemoStoreNumShards]; ok {
		if numShards, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, configkeys.ConfigMemoStoreNumShards, err)
		}
		if numShards < 0 {
			return Config{}, fmt.Errorf("%w: %s: must not be negative", ErrInvalidConfig, configkeys.ConfigMemoStoreNumShards)
		}
	}

	cfg := NewConfig(maxEntries, numShards)
	cfg.Name = values[configkeys.ConfigMemoName]
	if v, ok := values[configkeys.ConfigMemoSingleflight]; ok {
		if cfg.Singleflight, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, configkeys.ConfigMemoSingleflight, err)
		}
	}
	if v, ok := values[configkeys.ConfigMemoPolicy]; ok {
		switch v {
		case canon.Strict.String():
			cfg.Policy = canon.Strict
		case canon.BestEffort.String():
			cfg.Policy = canon.BestEffort
		default:
			return Config{}, fmt.Errorf("%w: %s: unknown policy %q", ErrInvalidConfig, configkeys.ConfigMemoPolicy, v)
		}
	}
	return cfg, nil
}
