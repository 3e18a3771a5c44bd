package insurance

import (
	"context"
	"time"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InsurerRepository persists insurer conventions, scoped to a pharmacy
type InsurerRepository interface {
	FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*Insurer, error)
	FindAll(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]*Insurer, error)
	Save(ctx context.Context, insurer *Insurer) error
	Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error)
}

// ClaimRepository persists claims, scoped to a pharmacy
type ClaimRepository interface {
	FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*Claim, error)

	// FindByInsurerAndStatus lists claims for batch invoicing or settlement
	FindByInsurerAndStatus(ctx context.Context, pharmacyID, insurerID uuid.UUID, status ClaimStatus, filter shared.Filter) ([]*Claim, error)

	// SumInsurerShareForMember totals the insurer share consumed by a member
	// over a time range, used for monthly ceiling checks
	SumInsurerShareForMember(ctx context.Context, pharmacyID, insurerID, customerID uuid.UUID, from, to time.Time) (decimal.Decimal, error)

	Save(ctx context.Context, claim *Claim) error
	SaveAll(ctx context.Context, claims []*Claim) error
	Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error)
}
