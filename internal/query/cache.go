package query

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nguyenthanhduc0901/clinic-app/pkg/logger"
	"github.com/nguyenthanhduc0901/clinic-app/pkg/metrics"
)

// Cache de-duplicates and stores query results. Per distinct key, at most
// one fetch is in flight at a time; concurrent callers share its result.
// Invalidation bumps a per-key generation so a fetch that was superseded
// mid-flight discards its result instead of overwriting fresh data.
type Cache struct {
	store   Store
	group   singleflight.Group
	log     *logger.Logger
	metrics *metrics.Metrics

	mu          sync.Mutex
	generations map[string]uint64
}

func NewCache(store Store, log *logger.Logger, m *metrics.Metrics) *Cache {
	return &Cache{
		store:       store,
		log:         log.WithComponent("query"),
		metrics:     m,
		generations: make(map[string]uint64),
	}
}

// generation registers the key so later prefix bumps can reach it, and
// returns its current generation.
func (c *Cache) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen, ok := c.generations[key]
	if !ok {
		c.generations[key] = 0
	}
	return gen
}

func (c *Cache) bumpGeneration(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.generations {
		if strings.HasPrefix(key, prefix) {
			c.generations[key]++
		}
	}
}

// Do serves the query from the store when a fresh entry exists; otherwise
// it runs fetch (shared across concurrent callers of the same key), writes
// the result unless the key was invalidated mid-flight, and decodes the
// payload into out.
func (c *Cache) Do(ctx context.Context, key Key, resource string, ttl time.Duration, out interface{}, fetch func(context.Context) (interface{}, error)) error {
	k := key.String()

	if data, ok := c.store.Get(k); ok {
		c.metrics.CacheHits.WithLabelValues(resource).Inc()
		return json.Unmarshal(data, out)
	}
	c.metrics.CacheMisses.WithLabelValues(resource).Inc()

	result, err, _ := c.group.Do(k, func() (interface{}, error) {
		gen := c.generation(k)

		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}

		if c.generation(k) == gen {
			c.store.Set(k, data, ttl)
		} else {
			c.log.Debug("discarding superseded fetch", "key", k)
		}
		return data, nil
	})
	if err != nil {
		return err
	}

	return json.Unmarshal(result.([]byte), out)
}

// Invalidate marks every entry under the given key prefixes stale: the
// entries are evicted and in-flight fetches for them will not be stored.
func (c *Cache) Invalidate(prefixes ...string) {
	for _, prefix := range prefixes {
		c.bumpGeneration(prefix)
		c.store.DeletePrefix(prefix)
		c.metrics.CacheInvalidations.WithLabelValues(resourceOf(prefix)).Inc()
	}
}

// EvictAll drops every cached entry; used on logout since all cached data
// is auth-scoped.
func (c *Cache) EvictAll() {
	c.mu.Lock()
	for key := range c.generations {
		c.generations[key]++
	}
	c.mu.Unlock()
	c.store.Flush()
}

func resourceOf(prefix string) string {
	if idx := strings.Index(prefix, ":"); idx > 0 {
		return prefix[:idx]
	}
	return prefix
}
