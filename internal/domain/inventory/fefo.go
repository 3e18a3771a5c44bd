package inventory

import (
	"sort"
	"time"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AllocationLine is one (lot, quantity) pair of an allocation plan
type AllocationLine struct {
	LotID    uuid.UUID
	Quantity int64
}

// AllocationPlan is the ordered result of a FEFO allocation. The plan is
// advisory only - nothing is debited until the caller commits one
// outward/sale movement per line through the lot ledger.
type AllocationPlan struct {
	ProductID uuid.UUID
	Requested int64
	Lines     []AllocationLine
}

// TotalAllocated returns the sum of quantities across all lines
func (p *AllocationPlan) TotalAllocated() int64 {
	var total int64
	for _, line := range p.Lines {
		total += line.Quantity
	}
	return total
}

// PlanFEFO builds a First-Expired-First-Out allocation over the given lots.
// Eligible lots are active and non-expired at the given instant; they are
// consumed earliest expiry first, ties broken by entry date (older stock
// first) then lot ID for determinism. All-or-nothing: when total eligible
// quantity is short of the request, the plan fails with INSUFFICIENT_STOCK
// and nothing is allocated.
//
// The function is a pure read-then-plan step and mutates none of the lots;
// keeping allocation separate from mutation keeps the commit atomic and the
// planner trivially testable.
func PlanFEFO(productID uuid.UUID, lots []StockLot, requested int64, now time.Time) (*AllocationPlan, error) {
	if requested <= 0 {
		return nil, shared.ErrInvalidQuantity
	}

	eligible := make([]StockLot, 0, len(lots))
	for _, lot := range lots {
		if lot.ProductID == productID && lot.IsAllocatable(now) {
			eligible = append(eligible, lot)
		}
	}

	sort.Slice(eligible, func(i, j int) bool {
		if !eligible[i].ExpiryDate.Equal(eligible[j].ExpiryDate) {
			return eligible[i].ExpiryDate.Before(eligible[j].ExpiryDate)
		}
		if !eligible[i].EntryDate.Equal(eligible[j].EntryDate) {
			return eligible[i].EntryDate.Before(eligible[j].EntryDate)
		}
		return eligible[i].ID.String() < eligible[j].ID.String()
	})

	var available int64
	for _, lot := range eligible {
		available += lot.Quantity
	}
	if available < requested {
		return nil, shared.ErrInsufficientStock
	}

	plan := &AllocationPlan{
		ProductID: productID,
		Requested: requested,
		Lines:     make([]AllocationLine, 0, len(eligible)),
	}

	remaining := requested
	for _, lot := range eligible {
		if remaining == 0 {
			break
		}
		take := lot.Quantity
		if take > remaining {
			take = remaining
		}
		plan.Lines = append(plan.Lines, AllocationLine{LotID: lot.ID, Quantity: take})
		remaining -= take
	}

	return plan, nil
}
