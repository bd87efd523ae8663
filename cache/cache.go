// Package cache implements the process-wide shared value cache. Values are
// converted into the uncounted domain on store, so any number of goroutines
// can read a published entry with no per-read locking on the value itself.
// Evicted and displaced entries are handed to the release path, which frees
// each converted object exactly once.
package cache

import (
	"fmt"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/cloudcmds/tern/shared"
	"github.com/cloudcmds/tern/value"
)

// Cache is a keyed store of uncounted values. All methods are safe for
// concurrent use.
type Cache struct {
	id       string
	cfg      shared.Config
	logger   zerolog.Logger
	capacity int
	group    singleflight.Group

	mu      sync.RWMutex
	entries map[string]*entry
	order   []string // insertion order, oldest first
}

type entry struct {
	val value.Value
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for store and eviction events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithCapacity bounds the number of entries; storing past the bound evicts
// the oldest entry. Zero means unbounded.
func WithCapacity(n int) Option {
	return func(c *Cache) {
		c.capacity = n
	}
}

// WithConfig sets the conversion flags applied on store.
func WithConfig(cfg shared.Config) Option {
	return func(c *Cache) {
		c.cfg = cfg
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		id:      uuid.Must(uuid.NewV4()).String(),
		logger:  zerolog.Nop(),
		entries: map[string]*entry{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("cache", c.id).Logger()
	return c
}

// Set converts v into the uncounted domain and publishes it under key,
// releasing any displaced entry. The caller's value is not modified.
func (c *Cache) Set(key string, v value.Value) error {
	analysis, err := shared.Analyze(v)
	if err != nil {
		return err
	}
	var seen *shared.Seen
	if analysis.SharedStructure {
		seen = shared.NewSeen()
	}
	slot := v
	if err := shared.Convert(&slot, seen, c.cfg); err != nil {
		return err
	}

	c.mu.Lock()
	var released []value.Value
	if old, ok := c.entries[key]; ok {
		released = append(released, old.val)
		c.removeOrderLocked(key)
	}
	c.entries[key] = &entry{val: slot}
	c.order = append(c.order, key)
	for c.capacity > 0 && len(c.entries) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		released = append(released, c.entries[oldest].val)
		delete(c.entries, oldest)
		c.logger.Debug().Str("key", oldest).Msg("evicted shared value")
	}
	c.mu.Unlock()

	for _, rv := range released {
		shared.Release(rv)
	}
	c.logger.Debug().Str("key", key).Msg("stored shared value")
	return nil
}

// Get returns the value under key with one additional manual reference on
// its heap payload. Callers must pair a hit with shared.Release once they
// are done with the value.
func (c *Cache) Get(key string) (value.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return value.Value{}, false
	}
	// The entry's own reference keeps the payload alive while we bump.
	retain(e.val)
	return e.val, true
}

// Contains reports whether key is present.
func (c *Cache) Contains(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

// Fetch returns the value under key, running loader to produce it on a
// miss. Concurrent fetches of the same key run loader once. As with Get,
// hits carry a manual reference the caller must release.
func (c *Cache) Fetch(key string, loader func() (value.Value, error)) (value.Value, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	_, err, _ := c.group.Do(key, func() (any, error) {
		if c.Contains(key) {
			return nil, nil
		}
		v, err := loader()
		if err != nil {
			return nil, err
		}
		return nil, c.Set(key, v)
	})
	if err != nil {
		return value.Value{}, err
	}
	v, ok := c.Get(key)
	if !ok {
		return value.Value{}, fmt.Errorf("cache: %q evicted before fetch completed", key)
	}
	return v, nil
}

// Delete removes key, releasing its value. Returns true when the key was
// present.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		delete(c.entries, key)
		c.removeOrderLocked(key)
	}
	c.mu.Unlock()
	if !ok {
		return false
	}
	shared.Release(e.val)
	c.logger.Debug().Str("key", key).Msg("deleted shared value")
	return true
}

// Clear removes and releases every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	entries := c.entries
	c.entries = map[string]*entry{}
	c.order = nil
	c.mu.Unlock()
	for _, e := range entries {
		shared.Release(e.val)
	}
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns the cached keys, oldest first.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

func (c *Cache) removeOrderLocked(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func retain(v value.Value) {
	switch {
	case v.Kind.IsString():
		v.Str.PersistentIncRef()
	case v.Kind.IsArrayLike():
		v.Arr.PersistentIncRef()
	}
}
