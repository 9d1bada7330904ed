package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"cvedex/config"
	"cvedex/core"
	"cvedex/storage"

	"go.uber.org/zap"
)

// mongoRetryDelays spaces the reconnect attempts of the initial connection
var mongoRetryDelays = []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}

// InitStorage opens the configured backend and wraps it with the lookup
// cache when one is configured.
func InitStorage(ctx context.Context, cfg *config.Config, sugar *zap.SugaredLogger) (storage.Store, error) {
	var backend storage.Store

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		ds, err := storage.LoadDataset(cfg.Storage.FixturePath, sugar)
		if err != nil {
			return nil, err
		}
		sugar.Infow("Serving in-memory fixture",
			"path", cfg.Storage.FixturePath,
			"vulnerabilities", len(ds.Vulnerabilities),
			"vendors", len(ds.Vendors),
			"products", len(ds.Products))
		backend = storage.NewMemoryStore(ds, sugar)
	default:
		db, err := InitMongoDB(ctx, cfg, sugar)
		if err != nil {
			return nil, err
		}
		backend = storage.NewMongoStore(db, sugar)
	}

	if cfg.Cache.LookupSize <= 0 {
		return backend, nil
	}
	sugar.Infow("Lookup cache enabled", "size", cfg.Cache.LookupSize, "ttl", cfg.Cache.LookupTTL)
	return storage.NewCachedStore(backend, cfg.Cache.LookupSize, cfg.Cache.LookupTTL), nil
}

// InitMongoDB connects to MongoDB, retrying with backoff.
func InitMongoDB(ctx context.Context, cfg *config.Config, sugar *zap.SugaredLogger) (*storage.MongoDB, error) {
	maxRetries := len(mongoRetryDelays)

	var db *storage.MongoDB
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := mongoRetryDelays[attempt-1]
			sugar.Infow("Retrying MongoDB connection",
				"attempt", attempt,
				"max_retries", maxRetries,
				"delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		db, lastErr = storage.NewMongoDB(cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.MongoDB.MaxPoolSize, cfg.MongoDB.Timeout, sugar)
		if lastErr == nil {
			return db, nil
		}

		sugar.Warnw("MongoDB connection attempt failed",
			"attempt", attempt+1,
			"error", lastErr)
	}

	fmt.Fprintf(os.Stderr, "\n========================================\n")
	fmt.Fprintf(os.Stderr, "FATAL: MongoDB Connection Failed\n")
	fmt.Fprintf(os.Stderr, "========================================\n")
	fmt.Fprintf(os.Stderr, "%s\n", ClassifyConnectionError(lastErr, RedactURI(cfg.MongoDB.URI)))
	fmt.Fprintf(os.Stderr, "========================================\n\n")
	return nil, fmt.Errorf("failed to connect to MongoDB after %d attempts: %w", maxRetries+1, lastErr)
}

// InitRedisCache returns the response cache, or nil when it is disabled
// or unreachable. The API serves uncached in that case.
func InitRedisCache(ctx context.Context, cfg *config.Config, sugar *zap.SugaredLogger) *core.RedisCache {
	if !cfg.Redis.Enabled {
		sugar.Info("Response cache disabled by configuration")
		return nil
	}

	cache := core.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize, sugar)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cache.Ping(pingCtx); err != nil {
		sugar.Warnw("Redis unreachable, continuing without response cache",
			"addr", cfg.Redis.Addr,
			"error", err)
		_ = cache.Close()
		return nil
	}

	sugar.Infow("Response cache connected", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	return cache
}
