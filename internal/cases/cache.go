package cases

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"rescue/internal/domain"
)

// Loader fetches the full, ordered case list from the store.
type Loader func(ctx context.Context) ([]domain.Case, error)

// Cache holds the case list shared by all readers. Concurrent misses share a
// single load. Invalidate bumps the generation so a load that started before
// a mutation never installs its result.
type Cache struct {
	load  Loader
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu       sync.RWMutex
	items    []domain.Case
	loadedAt time.Time
	valid    bool
	gen      uint64
}

// NewCache returns a cache over load. A non-positive ttl keeps entries until
// the next Invalidate.
func NewCache(load Loader, ttl time.Duration) *Cache {
	return &Cache{load: load, ttl: ttl, now: time.Now}
}

// Get returns a copy of the cached list, loading it when absent or expired.
func (c *Cache) Get(ctx context.Context) ([]domain.Case, error) {
	c.mu.RLock()
	if c.fresh() {
		items := cloneCases(c.items)
		c.mu.RUnlock()
		return items, nil
	}
	gen := c.gen
	c.mu.RUnlock()

	v, err, _ := c.group.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		items, err := c.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.items = items
			c.loadedAt = c.now()
			c.valid = true
		}
		c.mu.Unlock()
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneCases(v.([]domain.Case)), nil
}

// Invalidate drops the cached list.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.valid = false
	c.items = nil
	c.mu.Unlock()
}

func (c *Cache) fresh() bool {
	if !c.valid {
		return false
	}
	return c.ttl <= 0 || c.now().Sub(c.loadedAt) < c.ttl
}

func cloneCases(items []domain.Case) []domain.Case {
	out := make([]domain.Case, len(items))
	copy(out, items)
	return out
}
