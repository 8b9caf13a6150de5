package investor

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const DefaultCacheSize = 512

// LoadTimeout bounds a shared load. It runs apart from the callers'
// contexts so one caller going away does not fail the others.
const LoadTimeout = 30 * time.Second

// Cache memoizes query results by filter key. Concurrent misses on one key
// share a single load, and Invalidate discards every entry along with any
// load that was in flight when it was called.
// Use NewCache for building this value
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]QueryResult
	order      []string
	maxEntries int
	generation uint64
	group      singleflight.Group
}

func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}
	return &Cache{
		entries:    map[string]QueryResult{},
		maxEntries: maxEntries,
	}
}

func (c *Cache) Get(key string) (QueryResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res, ok := c.entries[key]
	if !ok {
		return QueryResult{}, false
	}
	return res.clone(), true
}

// GetOrLoad returns the cached result for key, calling load on a miss.
// Failed loads are not cached. The load receives a context that keeps the
// values of ctx but not its cancellation; each caller stops waiting when
// its own ctx is done.
func (c *Cache) GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) (QueryResult, error)) (QueryResult, error) {
	if res, ok := c.Get(key); ok {
		return res, nil
	}

	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	ch := c.group.DoChan(strconv.FormatUint(gen, 10)+"/"+key, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(detachedContext{parent: ctx}, LoadTimeout)
		defer cancel()

		res, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.store(key, gen, res)
		return res, nil
	})

	select {
	case <-ctx.Done():
		return QueryResult{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return QueryResult{}, r.Err
		}
		return r.Val.(QueryResult).clone(), nil
	}
}

// Invalidate drops every entry. Loads started before the call finish but
// their results are not stored.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = map[string]QueryResult{}
	c.order = nil
	c.generation++
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) store(key string, gen uint64, res QueryResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	if _, exists := c.entries[key]; !exists {
		for len(c.order) >= c.maxEntries {
			delete(c.entries, c.order[0])
			c.order = c.order[1:]
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = res
}

func (r QueryResult) clone() QueryResult {
	rows := make([]Summary, len(r.Rows))
	copy(rows, r.Rows)
	r.Rows = rows
	return r
}

// detachedContext carries the values of parent without its deadline or
// cancellation.
type detachedContext struct {
	parent context.Context
}

func (detachedContext) Deadline() (time.Time, bool) { return time.Time{}, false }
func (detachedContext) Done() <-chan struct{}       { return nil }
func (detachedContext) Err() error                  { return nil }

func (d detachedContext) Value(key interface{}) interface{} {
	return d.parent.Value(key)
}
