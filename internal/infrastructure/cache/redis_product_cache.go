// Package cache provides product read caching in front of the catalog
// repository. Lookups on the sale path (barcode scans, checkout line
// resolution) hit the cache first; writes invalidate.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	catalogapp "github.com/asspharma/backend/internal/application/catalog"
	"github.com/asspharma/backend/internal/domain/catalog"
	infraconfig "github.com/asspharma/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultProductTTL = 5 * time.Minute

var _ catalogapp.ProductCache = (*RedisProductCache)(nil)

// RedisProductCache implements ProductCache using Redis. All operations
// are best-effort: a Redis failure degrades to a repository read, never
// to an error on the sale path.
type RedisProductCache struct {
	client     *redis.Client
	ownsClient bool
	ttl        time.Duration
	logger     *zap.Logger
}

// RedisProductCacheOption is a functional option for configuring the cache
type RedisProductCacheOption func(*RedisProductCache)

// WithCacheTTL sets the product entry TTL
func WithCacheTTL(ttl time.Duration) RedisProductCacheOption {
	return func(c *RedisProductCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisProductCacheOption {
	return func(c *RedisProductCache) {
		c.logger = logger
	}
}

// NewRedisProductCache creates a new Redis-backed product cache
func NewRedisProductCache(cfg *infraconfig.RedisConfig, opts ...RedisProductCacheOption) (*RedisProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisProductCache{
		client:     client,
		ownsClient: true,
		ttl:        defaultProductTTL,
		logger:     zap.NewNop(),
	}
	if cfg.CacheTTL > 0 {
		cache.ttl = cfg.CacheTTL
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisProductCacheWithClient creates a cache with an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisProductCacheWithClient(client *redis.Client, opts ...RedisProductCacheOption) *RedisProductCache {
	cache := &RedisProductCache{
		client:     client,
		ownsClient: false,
		ttl:        defaultProductTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

func productCacheKey(pharmacyID, productID uuid.UUID) string {
	return fmt.Sprintf("product:%s:%s", pharmacyID.String(), productID.String())
}

// Get retrieves a product from cache. The second return value reports
// whether the lookup was a hit.
func (c *RedisProductCache) Get(ctx context.Context, pharmacyID, productID uuid.UUID) (*catalog.Product, bool) {
	cacheKey := productCacheKey(pharmacyID, productID)

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss for product", zap.String("key", cacheKey))
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Failed to get product from cache",
			zap.String("key", cacheKey),
			zap.Error(err))
		return nil, false
	}

	var product catalog.Product
	if err := json.Unmarshal(data, &product); err != nil {
		c.logger.Warn("Failed to unmarshal cached product",
			zap.String("key", cacheKey),
			zap.Error(err))
		// Drop the corrupted entry
		_ = c.client.Del(ctx, cacheKey)
		return nil, false
	}

	c.logger.Debug("Cache hit for product", zap.String("key", cacheKey))
	return &product, true
}

// Set stores a product in cache
func (c *RedisProductCache) Set(ctx context.Context, product *catalog.Product) {
	if product == nil {
		return
	}

	cacheKey := productCacheKey(product.PharmacyID, product.ID)

	data, err := json.Marshal(product)
	if err != nil {
		c.logger.Warn("Failed to marshal product for cache",
			zap.String("key", cacheKey),
			zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to set product in cache",
			zap.String("key", cacheKey),
			zap.Error(err))
		return
	}

	c.logger.Debug("Cached product",
		zap.String("key", cacheKey),
		zap.Duration("ttl", c.ttl))
}

// Invalidate removes a product from cache
func (c *RedisProductCache) Invalidate(ctx context.Context, pharmacyID, productID uuid.UUID) {
	cacheKey := productCacheKey(pharmacyID, productID)

	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		c.logger.Warn("Failed to invalidate product in cache",
			zap.String("key", cacheKey),
			zap.Error(err))
		return
	}

	c.logger.Debug("Invalidated product in cache", zap.String("key", cacheKey))
}

// Close releases the Redis client when the cache owns it
func (c *RedisProductCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}
