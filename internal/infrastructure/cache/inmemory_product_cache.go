package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	catalogapp "github.com/asspharma/backend/internal/application/catalog"
	"github.com/asspharma/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const inMemoryCleanupInterval = 30 * time.Second

var _ catalogapp.ProductCache = (*InMemoryProductCache)(nil)

// InMemoryProductCache implements ProductCache with process-local
// storage. It is used when Redis is disabled, typically single-register
// deployments where the backend runs on the pharmacy's own machine.
type InMemoryProductCache struct {
	entries sync.Map // map[string]*productEntry
	ttl     time.Duration
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

type productEntry struct {
	product   *catalog.Product
	expiresAt time.Time
}

func (e *productEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryProductCacheOption is a functional option for configuring the cache
type InMemoryProductCacheOption func(*InMemoryProductCache)

// WithInMemoryTTL sets the product entry TTL
func WithInMemoryTTL(ttl time.Duration) InMemoryProductCacheOption {
	return func(c *InMemoryProductCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryProductCacheOption {
	return func(c *InMemoryProductCache) {
		c.logger = logger
	}
}

// NewInMemoryProductCache creates a new in-memory product cache
func NewInMemoryProductCache(opts ...InMemoryProductCacheOption) *InMemoryProductCache {
	cache := &InMemoryProductCache{
		ttl:    defaultProductTTL,
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

// Get retrieves a product from cache
func (c *InMemoryProductCache) Get(_ context.Context, pharmacyID, productID uuid.UUID) (*catalog.Product, bool) {
	cacheKey := productCacheKey(pharmacyID, productID)

	if value, ok := c.entries.Load(cacheKey); ok {
		entry := value.(*productEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			copied := *entry.product
			return &copied, true
		}
		c.entries.Delete(cacheKey)
	}

	atomic.AddInt64(&c.misses, 1)
	return nil, false
}

// Set stores a product in cache
func (c *InMemoryProductCache) Set(_ context.Context, product *catalog.Product) {
	if product == nil {
		return
	}

	copied := *product
	c.entries.Store(productCacheKey(product.PharmacyID, product.ID), &productEntry{
		product:   &copied,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// Invalidate removes a product from cache
func (c *InMemoryProductCache) Invalidate(_ context.Context, pharmacyID, productID uuid.UUID) {
	c.entries.Delete(productCacheKey(pharmacyID, productID))
}

// Stats returns hit and miss counts, for monitoring
func (c *InMemoryProductCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Close stops the background cleanup goroutine
func (c *InMemoryProductCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

func (c *InMemoryProductCache) cleanupExpired() {
	ticker := time.NewTicker(inMemoryCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.entries.Range(func(key, value any) bool {
				if value.(*productEntry).isExpired() {
					c.entries.Delete(key)
				}
				return true
			})
		}
	}
}
