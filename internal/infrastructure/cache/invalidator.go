package cache

import (
	"context"

	catalogapp "github.com/asspharma/backend/internal/application/catalog"
	"github.com/asspharma/backend/internal/domain/catalog"
	"github.com/asspharma/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var _ shared.EventHandler = (*ProductCacheInvalidator)(nil)

// ProductCacheInvalidator drops cached product entries when the product
// changes through the event bus rather than the catalog service itself.
// With a shared Redis backend this keeps multiple server processes
// coherent.
type ProductCacheInvalidator struct {
	cache  catalogapp.ProductCache
	logger *zap.Logger
}

// NewProductCacheInvalidator creates an invalidator bound to the given cache
func NewProductCacheInvalidator(cache catalogapp.ProductCache, logger *zap.Logger) *ProductCacheInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductCacheInvalidator{cache: cache, logger: logger}
}

// EventTypes declares the catalog events that carry a product mutation
func (i *ProductCacheInvalidator) EventTypes() []string {
	return []string{catalog.EventTypeProductStatusChanged}
}

// Handle invalidates the cache entry for the mutated product
func (i *ProductCacheInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	i.cache.Invalidate(ctx, event.PharmacyID(), event.AggregateID())
	i.logger.Debug("product cache entry invalidated",
		zap.String("product_id", event.AggregateID().String()),
		zap.String("event_type", event.EventType()),
	)
	return nil
}
