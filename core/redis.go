package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"cvedex/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCache stores serialized query responses in Redis. The query data is
// read-only from this service's point of view, so entries simply expire.
type RedisCache struct {
	client *redis.Client
	logger *zap.SugaredLogger
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(addr, password string, db, poolSize int, logger *zap.SugaredLogger) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: poolSize,
	})

	return &RedisCache{
		client: client,
		logger: logger,
	}
}

// Ping tests the Redis connection
func (rc *RedisCache) Ping(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// maxCacheValueSize caps a single cached response at 10MB.
const maxCacheValueSize = 10 * 1024 * 1024

// Set stores a value in the cache with expiration
func (rc *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		rc.logger.Errorw("Failed to marshal cache value", "key", key, "error", err)
		metrics.CacheErrors.WithLabelValues("redis", "marshal").Inc()
		return err
	}

	if len(data) > maxCacheValueSize {
		rc.logger.Warnw("Cache value exceeds size limit, rejecting", "key", key, "size", len(data))
		metrics.CacheErrors.WithLabelValues("redis", "size_limit").Inc()
		return fmt.Errorf("cache value size %d bytes exceeds maximum allowed size %d bytes", len(data), maxCacheValueSize)
	}

	if err := rc.client.Set(ctx, key, data, expiration).Err(); err != nil {
		metrics.CacheErrors.WithLabelValues("redis", "set").Inc()
		return err
	}
	return nil
}

// Get loads a cached value into dest. found is false on a miss.
func (rc *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := rc.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheMisses.WithLabelValues("redis").Inc()
			return false, nil
		}
		rc.logger.Errorw("Failed to get cache value", "key", key, "error", err)
		metrics.CacheErrors.WithLabelValues("redis", "get").Inc()
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		rc.logger.Errorw("Failed to unmarshal cache value", "key", key, "error", err)
		metrics.CacheErrors.WithLabelValues("redis", "unmarshal").Inc()
		return false, err
	}

	metrics.CacheHits.WithLabelValues("redis").Inc()
	return true, nil
}

const (
	CacheKeyStatsPrefix    = "stats:"
	CacheKeyTimelinePrefix = "timeline:"
)

// GetStatsCacheKey generates a cache key for statistics
func GetStatsCacheKey(statsKey string) string {
	return CacheKeyStatsPrefix + statsKey
}

// GetTimelineCacheKey generates a cache key for a timeline request. Query
// parameters are sorted so equivalent requests share a key.
func GetTimelineCacheKey(path string, query url.Values) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(CacheKeyTimelinePrefix)
	b.WriteString(path)
	for _, k := range keys {
		b.WriteString("|")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(strings.Join(query[k], ","))
	}
	return b.String()
}
