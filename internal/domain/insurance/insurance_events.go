package insurance

import (
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ClaimCreatedEvent is emitted when a covered sale creates a claim
type ClaimCreatedEvent struct {
	shared.BaseDomainEvent
	InsurerID    string          `json:"insurer_id"`
	SaleRef      string          `json:"sale_ref"`
	InsurerShare decimal.Decimal `json:"insurer_share"`
}

// NewClaimCreatedEvent creates a claim created event
func NewClaimCreatedEvent(claim *Claim) *ClaimCreatedEvent {
	return &ClaimCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			"insurance.claim.created",
			"Claim",
			claim.ID,
			claim.GetPharmacyID(),
		),
		InsurerID:    claim.InsurerID.String(),
		SaleRef:      claim.SaleRef,
		InsurerShare: claim.InsurerShare,
	}
}
