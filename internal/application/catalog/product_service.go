package catalog

import (
	"context"

	"github.com/asspharma/backend/internal/domain/catalog"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ProductCache is a read-through cache for catalog lookups. Lookups on the
// sale path (barcode scans at the counter) hit the catalog far more often
// than it changes, so cache failures are never surfaced to the caller.
type ProductCache interface {
	Get(ctx context.Context, pharmacyID, productID uuid.UUID) (*catalog.Product, bool)
	Set(ctx context.Context, product *catalog.Product)
	Invalidate(ctx context.Context, pharmacyID, productID uuid.UUID)
}

// NoOpProductCache is used when no cache backend is configured
type NoOpProductCache struct{}

func (NoOpProductCache) Get(context.Context, uuid.UUID, uuid.UUID) (*catalog.Product, bool) {
	return nil, false
}
func (NoOpProductCache) Set(context.Context, *catalog.Product)            {}
func (NoOpProductCache) Invalidate(context.Context, uuid.UUID, uuid.UUID) {}

var _ ProductCache = NoOpProductCache{}

// ProductService manages the pharmacy catalog
type ProductService struct {
	productRepo    catalog.ProductRepository
	cache          ProductCache
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, cache ProductCache, eventPublisher shared.EventPublisher) *ProductService {
	if cache == nil {
		cache = NoOpProductCache{}
	}
	return &ProductService{
		productRepo:    productRepo,
		cache:          cache,
		eventPublisher: eventPublisher,
	}
}

// CreateProduct registers a new product in the catalog
func (s *ProductService) CreateProduct(ctx context.Context, pharmacyID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	if req.Barcode != "" {
		if existing, err := s.productRepo.FindByBarcode(ctx, pharmacyID, req.Barcode); err == nil && existing != nil {
			return nil, shared.NewDomainError("BARCODE_TAKEN", "A product with this barcode already exists")
		}
	}

	product, err := catalog.NewProduct(pharmacyID, catalog.NewProductParams{
		CommercialName: req.CommercialName,
		DCI:            req.DCI,
		Dosage:         req.Dosage,
		Form:           req.Form,
		Manufacturer:   req.Manufacturer,
		Shelf:          req.Shelf,
		ShelfLevel:     req.ShelfLevel,
		Barcode:        req.Barcode,
		UnitPrice:      valueobject.NewMoneyXOF(req.UnitPrice),
		MinStock:       req.MinStock,
		SaleCategory:   catalog.SaleCategory(req.SaleCategory),
	})
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)
	s.cache.Set(ctx, product)

	return ToProductResponse(product), nil
}

// GetProduct returns one product, served from cache when possible
func (s *ProductService) GetProduct(ctx context.Context, pharmacyID, productID uuid.UUID) (*ProductResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	if cached, ok := s.cache.Get(ctx, pharmacyID, productID); ok {
		return ToProductResponse(cached), nil
	}

	product, err := s.productRepo.FindByID(ctx, pharmacyID, productID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, product)
	return ToProductResponse(product), nil
}

// LookupByBarcode finds a product from a barcode scan at the counter
func (s *ProductService) LookupByBarcode(ctx context.Context, pharmacyID uuid.UUID, barcode string) (*ProductResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	if barcode == "" {
		return nil, shared.NewDomainError("INVALID_BARCODE", "Barcode cannot be empty")
	}

	product, err := s.productRepo.FindByBarcode(ctx, pharmacyID, barcode)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, product)
	return ToProductResponse(product), nil
}

// ListProducts lists catalog products; filter supports shelf, status and a
// name/DCI search term
func (s *ProductService) ListProducts(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]*ProductResponse, int64, error) {
	if pharmacyID == uuid.Nil {
		return nil, 0, shared.ErrTenantScopeMissing
	}

	products, err := s.productRepo.FindAll(ctx, pharmacyID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, pharmacyID, filter)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]*ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, ToProductResponse(&products[i]))
	}
	return resp, total, nil
}

// UpdatePrice changes the unit sale price
func (s *ProductService) UpdatePrice(ctx context.Context, pharmacyID, productID uuid.UUID, req UpdatePriceRequest) (*ProductResponse, error) {
	return s.mutate(ctx, pharmacyID, productID, func(p *catalog.Product) error {
		return p.UpdatePrice(valueobject.NewMoneyXOF(req.UnitPrice))
	})
}

// Relocate moves a product to another shelf
func (s *ProductService) Relocate(ctx context.Context, pharmacyID, productID uuid.UUID, req RelocateRequest) (*ProductResponse, error) {
	return s.mutate(ctx, pharmacyID, productID, func(p *catalog.Product) error {
		p.Relocate(req.Shelf, req.ShelfLevel)
		return nil
	})
}

// SetMinStock adjusts the minimum-stock alert threshold
func (s *ProductService) SetMinStock(ctx context.Context, pharmacyID, productID uuid.UUID, req SetMinStockRequest) (*ProductResponse, error) {
	return s.mutate(ctx, pharmacyID, productID, func(p *catalog.Product) error {
		return p.SetMinStock(req.MinStock)
	})
}

// ChangeStatus transitions the product lifecycle status. Products with
// movement history are never deleted; recalls and discontinuations go
// through here.
func (s *ProductService) ChangeStatus(ctx context.Context, pharmacyID, productID uuid.UUID, req ChangeStatusRequest) (*ProductResponse, error) {
	return s.mutate(ctx, pharmacyID, productID, func(p *catalog.Product) error {
		return p.ChangeStatus(catalog.ProductStatus(req.Status))
	})
}

func (s *ProductService) mutate(ctx context.Context, pharmacyID, productID uuid.UUID, change func(*catalog.Product) error) (*ProductResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	product, err := s.productRepo.FindByID(ctx, pharmacyID, productID)
	if err != nil {
		return nil, err
	}
	if err := change(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)
	s.cache.Invalidate(ctx, pharmacyID, productID)

	return ToProductResponse(product), nil
}

func (s *ProductService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	aggregate.ClearDomainEvents()
}
