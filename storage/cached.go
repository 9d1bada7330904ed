package storage

import (
	"context"
	"time"

	"cvedex/core"
	"cvedex/metrics"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedStore decorates a Store with expiring LRU caches for single-entity
// lookups. Counts, finds and aggregations always reach the backend.
type CachedStore struct {
	Store
	vulnerabilities *expirable.LRU[string, core.Vulnerability]
	vendors         *expirable.LRU[string, core.Vendor]
	products        *expirable.LRU[string, core.Product]
}

// NewCachedStore wraps backend. size bounds each entity cache.
func NewCachedStore(backend Store, size int, ttl time.Duration) *CachedStore {
	return &CachedStore{
		Store:           backend,
		vulnerabilities: expirable.NewLRU[string, core.Vulnerability](size, nil, ttl),
		vendors:         expirable.NewLRU[string, core.Vendor](size, nil, ttl),
		products:        expirable.NewLRU[string, core.Product](size, nil, ttl),
	}
}

// GetVulnerability serves from cache before the backend
func (c *CachedStore) GetVulnerability(ctx context.Context, cveID string) (*core.Vulnerability, error) {
	return cachedGet(ctx, c.vulnerabilities, "vulnerability", cveID, c.Store.GetVulnerability)
}

// GetVendor serves from cache before the backend
func (c *CachedStore) GetVendor(ctx context.Context, id string) (*core.Vendor, error) {
	return cachedGet(ctx, c.vendors, "vendor", id, c.Store.GetVendor)
}

// GetProduct serves from cache before the backend
func (c *CachedStore) GetProduct(ctx context.Context, id string) (*core.Product, error) {
	return cachedGet(ctx, c.products, "product", id, c.Store.GetProduct)
}

// cachedGet stores values, never errors, so a NotFound is re-checked on
// the next lookup. Callers get their own copy of the cached value.
func cachedGet[T any](ctx context.Context, cache *expirable.LRU[string, T], name, key string, load func(context.Context, string) (*T, error)) (*T, error) {
	if v, ok := cache.Get(key); ok {
		metrics.CacheHits.WithLabelValues("lookup_" + name).Inc()
		return &v, nil
	}
	metrics.CacheMisses.WithLabelValues("lookup_" + name).Inc()

	v, err := load(ctx, key)
	if err != nil {
		return nil, err
	}
	cache.Add(key, *v)
	return v, nil
}
