package partner

import (
	"context"
	"errors"
	"time"

	"github.com/asspharma/backend/internal/domain/insurance"
	"github.com/asspharma/backend/internal/domain/partner"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CreateCustomerRequest registers a customer
type CreateCustomerRequest struct {
	FirstName string     `json:"first_name" binding:"required,max=100"`
	LastName  string     `json:"last_name" binding:"required,max=100"`
	Phone     string     `json:"phone" binding:"required,max=30,sn_phone"`
	Email     string     `json:"email" binding:"omitempty,email,max=150"`
	Address   string     `json:"address" binding:"max=300"`
	BirthDate *time.Time `json:"birth_date"`
}

// AffiliateRequest links a customer to an insurer convention
type AffiliateRequest struct {
	InsurerID        uuid.UUID `json:"insurer_id" binding:"required"`
	MembershipNumber string    `json:"membership_number" binding:"required,max=50"`
	Beneficiary      string    `json:"beneficiary" binding:"max=150"`
}

// CustomerResponse is the API representation of a customer
type CustomerResponse struct {
	ID               uuid.UUID  `json:"id"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	FullName         string     `json:"full_name"`
	Phone            string     `json:"phone"`
	Email            string     `json:"email,omitempty"`
	Address          string     `json:"address,omitempty"`
	BirthDate        *time.Time `json:"birth_date,omitempty"`
	Status           string     `json:"status"`
	InsurerID        *uuid.UUID `json:"insurer_id,omitempty"`
	MembershipNumber string     `json:"membership_number,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ToCustomerResponse converts a customer to its API representation
func ToCustomerResponse(c *partner.Customer) *CustomerResponse {
	resp := &CustomerResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		BirthDate: c.BirthDate,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
	}
	if c.Affiliation.IsAffiliated() {
		insurerID := c.Affiliation.InsurerID
		resp.InsurerID = &insurerID
		resp.MembershipNumber = c.Affiliation.MembershipNumber
	}
	return resp
}

// CreateSupplierRequest registers a wholesaler
type CreateSupplierRequest struct {
	Name        string `json:"name" binding:"required,max=150"`
	ContactName string `json:"contact_name" binding:"max=150"`
	Phone       string `json:"phone" binding:"max=30,sn_phone"`
	Email       string `json:"email" binding:"omitempty,email,max=150"`
	Address     string `json:"address" binding:"max=300"`
}

// SupplierResponse is the API representation of a supplier
type SupplierResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToSupplierResponse converts a supplier to its API representation
func ToSupplierResponse(s *partner.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID:          s.ID,
		Name:        s.Name,
		ContactName: s.ContactName,
		Phone:       s.Phone,
		Email:       s.Email,
		Address:     s.Address,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
	}
}

// PartnerService manages the people around the pharmacy: customers on one
// side, wholesalers on the other
type PartnerService struct {
	customerRepo partner.CustomerRepository
	supplierRepo partner.SupplierRepository
	insurerRepo  insurance.InsurerRepository
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(customerRepo partner.CustomerRepository, supplierRepo partner.SupplierRepository, insurerRepo insurance.InsurerRepository) *PartnerService {
	return &PartnerService{customerRepo: customerRepo, supplierRepo: supplierRepo, insurerRepo: insurerRepo}
}

// CreateCustomer registers a customer. The phone number is the natural key
// staff search by, so duplicates are refused.
func (s *PartnerService) CreateCustomer(ctx context.Context, pharmacyID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	if existing, err := s.customerRepo.FindByPhone(ctx, pharmacyID, req.Phone); err == nil && existing != nil {
		return nil, shared.NewDomainError("PHONE_TAKEN", "A customer with this phone number already exists")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	customer, err := partner.NewCustomer(pharmacyID, req.FirstName, req.LastName, req.Phone)
	if err != nil {
		return nil, err
	}
	customer.UpdateContact(req.Phone, req.Email, req.Address)
	customer.BirthDate = req.BirthDate

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return ToCustomerResponse(customer), nil
}

// Affiliate links a customer to an insurer convention
func (s *PartnerService) Affiliate(ctx context.Context, pharmacyID, customerID uuid.UUID, req AffiliateRequest) (*CustomerResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	if _, err := s.insurerRepo.FindByID(ctx, pharmacyID, req.InsurerID); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByID(ctx, pharmacyID, customerID)
	if err != nil {
		return nil, err
	}
	if err := customer.Affiliate(req.InsurerID, req.MembershipNumber, req.Beneficiary); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return ToCustomerResponse(customer), nil
}

// RemoveAffiliation detaches a customer from their insurer
func (s *PartnerService) RemoveAffiliation(ctx context.Context, pharmacyID, customerID uuid.UUID) (*CustomerResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	customer, err := s.customerRepo.FindByID(ctx, pharmacyID, customerID)
	if err != nil {
		return nil, err
	}
	customer.RemoveAffiliation()
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return ToCustomerResponse(customer), nil
}

// GetCustomer returns one customer
func (s *PartnerService) GetCustomer(ctx context.Context, pharmacyID, customerID uuid.UUID) (*CustomerResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	customer, err := s.customerRepo.FindByID(ctx, pharmacyID, customerID)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponse(customer), nil
}

// SearchCustomerByPhone looks a customer up by their phone number
func (s *PartnerService) SearchCustomerByPhone(ctx context.Context, pharmacyID uuid.UUID, phone string) (*CustomerResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	customer, err := s.customerRepo.FindByPhone(ctx, pharmacyID, phone)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponse(customer), nil
}

// ListCustomers lists the pharmacy's customers
func (s *PartnerService) ListCustomers(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]*CustomerResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	customers, err := s.customerRepo.FindAll(ctx, pharmacyID, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]*CustomerResponse, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, ToCustomerResponse(c))
	}
	return resp, nil
}

// DeactivateCustomer disables a customer record
func (s *PartnerService) DeactivateCustomer(ctx context.Context, pharmacyID, customerID uuid.UUID) (*CustomerResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	customer, err := s.customerRepo.FindByID(ctx, pharmacyID, customerID)
	if err != nil {
		return nil, err
	}
	customer.Deactivate()
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return ToCustomerResponse(customer), nil
}

// CreateSupplier registers a wholesaler
func (s *PartnerService) CreateSupplier(ctx context.Context, pharmacyID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	if existing, err := s.supplierRepo.FindByName(ctx, pharmacyID, req.Name); err == nil && existing != nil {
		return nil, shared.NewDomainError("NAME_TAKEN", "A supplier with this name already exists")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	supplier, err := partner.NewSupplier(pharmacyID, req.Name)
	if err != nil {
		return nil, err
	}
	supplier.UpdateContact(req.ContactName, req.Phone, req.Email, req.Address)

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return ToSupplierResponse(supplier), nil
}

// GetSupplier returns one supplier
func (s *PartnerService) GetSupplier(ctx context.Context, pharmacyID, supplierID uuid.UUID) (*SupplierResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	supplier, err := s.supplierRepo.FindByID(ctx, pharmacyID, supplierID)
	if err != nil {
		return nil, err
	}
	return ToSupplierResponse(supplier), nil
}

// ListSuppliers lists the pharmacy's wholesalers
func (s *PartnerService) ListSuppliers(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]*SupplierResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	suppliers, err := s.supplierRepo.FindAll(ctx, pharmacyID, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]*SupplierResponse, 0, len(suppliers))
	for _, sup := range suppliers {
		resp = append(resp, ToSupplierResponse(sup))
	}
	return resp, nil
}

// DeactivateSupplier disables a supplier record
func (s *PartnerService) DeactivateSupplier(ctx context.Context, pharmacyID, supplierID uuid.UUID) (*SupplierResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	supplier, err := s.supplierRepo.FindByID(ctx, pharmacyID, supplierID)
	if err != nil {
		return nil, err
	}
	supplier.Deactivate()
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return ToSupplierResponse(supplier), nil
}
