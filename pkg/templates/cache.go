package templates

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const defaultCacheTTL = 5 * time.Minute

// Getter is the read surface shared by Store and CachedStore.
type Getter interface {
	GetByName(ctx context.Context, name string) (*Template, error)
}

type cacheEntry struct {
	expiresAt time.Time
	tpl       *Template
}

// backingStore is the full store surface CachedStore delegates to.
type backingStore interface {
	Getter
	Upserter
}

// CachedStore is a read-through TTL cache in front of a Store.
// Concurrent misses for the same name are collapsed into a single
// database query. Upserts write through and invalidate the entry.
type CachedStore struct {
	inner   backingStore
	entries map[string]cacheEntry
	sf      singleflight.Group
	ttl     time.Duration
	mu      sync.RWMutex
}

// NewCachedStore wraps a store with an in-memory cache.
// A non-positive ttl falls back to the 5 minute default.
func NewCachedStore(inner backingStore, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedStore{
		inner:   inner,
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// GetByName returns the cached template or loads it from the database.
// Negative results are not cached: a template created after a miss is
// visible on the next call.
func (c *CachedStore) GetByName(ctx context.Context, name string) (*Template, error) {
	c.mu.RLock()
	entry, ok := c.entries[name]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.tpl, nil
	}

	v, err, _ := c.sf.Do(name, func() (any, error) {
		tpl, err := c.inner.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[name] = cacheEntry{tpl: tpl, expiresAt: time.Now().Add(c.ttl)}
		c.mu.Unlock()
		return tpl, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Template), nil
}

// Upsert writes through to the database and refreshes the cache entry.
func (c *CachedStore) Upsert(ctx context.Context, tpl *Template) (*Template, error) {
	saved, err := c.inner.Upsert(ctx, tpl)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[saved.Name] = cacheEntry{tpl: saved, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return saved, nil
}

// Invalidate drops a single entry from the cache.
func (c *CachedStore) Invalidate(name string) {
	c.mu.Lock()
	delete(c.entries, name)
	c.mu.Unlock()
}
