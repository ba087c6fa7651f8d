package instructions

import (
	"context"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultTTL bounds the lifetime of cached driver documents.
	DefaultTTL = 15 * time.Minute

	// GenericTTL is the shorter lifetime used for generic-tier documents,
	// so real instructions are retried sooner once they might exist.
	GenericTTL = 5 * time.Minute

	// DefaultSweepInterval is how often the background sweep runs.
	DefaultSweepInterval = 5 * time.Minute
)

// cacheEntry pairs a document with its creation instant and lifetime.
// Entries are owned exclusively by the Cache and never escape it.
type cacheEntry struct {
	data      *DriverInstructions
	timestamp time.Time
	ttl       time.Duration
}

func (e *cacheEntry) expired(now time.Time) bool {
	return now.Sub(e.timestamp) > e.ttl
}

// Cache is an in-memory store of driver instruction documents keyed by
// canonical driver identifier, with per-entry TTL. Expired entries are
// evicted lazily on Get and by a periodic background sweep.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*cacheEntry
	defaultTTL time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// NewCache creates an empty cache. A defaultTTL of zero selects DefaultTTL.
func NewCache(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Cache{
		entries:    make(map[string]*cacheEntry),
		defaultTTL: defaultTTL,
	}
}

// Get returns the cached document for key, or nil and false when the key is
// absent or its entry has outlived its TTL. An expired entry is evicted as a
// side effect of the lookup.
func (c *Cache) Get(key string) (*DriverInstructions, bool) {
	key = strings.ToLower(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if entry.expired(time.Now()) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.data, true
}

// Set stores data under key with the given TTL, overwriting any existing
// entry. A ttl of zero or less selects the cache's default. Last write wins.
func (c *Cache) Set(key string, data *DriverInstructions, ttl time.Duration) {
	key = strings.ToLower(key)
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &cacheEntry{
		data:      data,
		timestamp: time.Now(),
		ttl:       ttl,
	}
}

// Clear empties the store.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// Size returns the number of entries currently held, expired or not.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep evicts every entry whose age exceeds its own TTL. It bounds memory
// growth from entries that are cached but never read again.
func (c *Cache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.entries {
		if entry.expired(now) {
			delete(c.entries, key)
		}
	}
}

// StartSweepRoutine starts a background goroutine that calls Sweep on the
// given interval until Close is called. An interval of zero or less selects
// DefaultSweepInterval.
func (c *Cache) StartSweepRoutine(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})

	go func() {
		defer close(c.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sweep()
			}
		}
	}()
}

// Close stops the sweep goroutine and waits for it to exit. It is safe to
// call Close even if StartSweepRoutine was never called.
func (c *Cache) Close() error {
	if c.cancel != nil {
		c.cancel()
		<-c.done
	}
	return nil
}
