package report

import (
	"context"
	"time"

	"github.com/asspharma/backend/internal/domain/cashier"
	"github.com/asspharma/backend/internal/domain/catalog"
	"github.com/asspharma/backend/internal/domain/credit"
	"github.com/asspharma/backend/internal/domain/inventory"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultExpiryHorizonDays mirrors the alerting default so the daily
// summary and the alert endpoints agree on what "expiring soon" means
const DefaultExpiryHorizonDays = 30

// MethodUnspecified buckets sale transactions recorded without a payment
// method
const MethodUnspecified = "especes"

// SessionSummary reports one closed register session of the day
type SessionSummary struct {
	SessionID uuid.UUID       `json:"session_id"`
	Register  string          `json:"register"`
	OpenedAt  time.Time       `json:"opened_at"`
	ClosedAt  time.Time       `json:"closed_at"`
	Variance  decimal.Decimal `json:"variance"`
}

// DailySummaryResponse aggregates one business day for the titular's
// morning review: takings, stock flow, credit exposure and alert counts.
type DailySummaryResponse struct {
	Date time.Time `json:"date"`

	// Takings across all registers, from session transactions
	SalesTotal     decimal.Decimal            `json:"sales_total"`
	SalesByMethod  map[string]decimal.Decimal `json:"sales_by_method"`
	SalesCount     int                        `json:"sales_count"`
	InflowsTotal   decimal.Decimal            `json:"inflows_total"`
	OutflowsTotal  decimal.Decimal            `json:"outflows_total"`
	SessionsOpened int                        `json:"sessions_opened"`
	SessionsClosed int                        `json:"sessions_closed"`
	VarianceTotal  decimal.Decimal            `json:"variance_total"`
	Sessions       []SessionSummary           `json:"sessions"`

	// Stock flow from the movement ledger
	UnitsReceived int64 `json:"units_received"`
	UnitsSold     int64 `json:"units_sold"`
	UnitsRemoved  int64 `json:"units_removed"` // destructions, expiry pulls, adjustments out
	MovementCount int   `json:"movement_count"`

	// Credit exposure across all accounts, as of now
	OutstandingCredit decimal.Decimal `json:"outstanding_credit"`

	// Alert counts, as of now
	LowStockAlerts int `json:"low_stock_alerts"`
	ExpiredLots    int `json:"expired_lots"`
	ExpiringLots   int `json:"expiring_lots"`
}

// ReportService derives read-only summaries over the other contexts'
// stores. It owns no aggregate and writes nothing.
type ReportService struct {
	sessionRepo  cashier.CashSessionRepository
	movementRepo inventory.StockMovementRepository
	lotRepo      inventory.StockLotRepository
	productRepo  catalog.ProductRepository
	accountRepo  credit.CreditAccountRepository
	horizonDays  int
}

// NewReportService creates a new ReportService
func NewReportService(
	sessionRepo cashier.CashSessionRepository,
	movementRepo inventory.StockMovementRepository,
	lotRepo inventory.StockLotRepository,
	productRepo catalog.ProductRepository,
	accountRepo credit.CreditAccountRepository,
) *ReportService {
	return &ReportService{
		sessionRepo:  sessionRepo,
		movementRepo: movementRepo,
		lotRepo:      lotRepo,
		productRepo:  productRepo,
		accountRepo:  accountRepo,
		horizonDays:  DefaultExpiryHorizonDays,
	}
}

// SetExpiryHorizon overrides the default look-ahead window in days
func (s *ReportService) SetExpiryHorizon(days int) {
	if days > 0 {
		s.horizonDays = days
	}
}

// DailySummary builds the summary for the business day containing `day`,
// in that value's location. Figures derived from the ledger (takings,
// stock flow) are fixed for past days; the credit and alert figures are
// always as of now.
func (s *ReportService) DailySummary(ctx context.Context, pharmacyID uuid.UUID, day time.Time) (*DailySummaryResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	resp := &DailySummaryResponse{
		Date:              from,
		SalesTotal:        decimal.Zero,
		SalesByMethod:     make(map[string]decimal.Decimal),
		InflowsTotal:      decimal.Zero,
		OutflowsTotal:     decimal.Zero,
		VarianceTotal:     decimal.Zero,
		Sessions:          make([]SessionSummary, 0),
		OutstandingCredit: decimal.Zero,
	}

	if err := s.collectSessions(ctx, pharmacyID, from, to, resp); err != nil {
		return nil, err
	}
	if err := s.collectMovements(ctx, pharmacyID, from, to, resp); err != nil {
		return nil, err
	}
	if err := s.collectCredit(ctx, pharmacyID, resp); err != nil {
		return nil, err
	}
	if err := s.collectAlerts(ctx, pharmacyID, resp); err != nil {
		return nil, err
	}

	return resp, nil
}

func (s *ReportService) collectSessions(ctx context.Context, pharmacyID uuid.UUID, from, to time.Time, resp *DailySummaryResponse) error {
	sessions, err := s.sessionRepo.FindAll(ctx, pharmacyID, shared.Filter{Page: 1, PageSize: 0})
	if err != nil {
		return err
	}

	for _, session := range sessions {
		if !session.OpenedAt.Before(from) && session.OpenedAt.Before(to) {
			resp.SessionsOpened++
		}

		for i := range session.Transactions {
			tx := &session.Transactions[i]
			if tx.RecordedAt.Before(from) || !tx.RecordedAt.Before(to) {
				continue
			}
			switch tx.Kind {
			case cashier.TransactionSale:
				resp.SalesCount++
				resp.SalesTotal = resp.SalesTotal.Add(tx.Amount)
				method := tx.Method
				if method == "" {
					method = MethodUnspecified
				}
				current, ok := resp.SalesByMethod[method]
				if !ok {
					current = decimal.Zero
				}
				resp.SalesByMethod[method] = current.Add(tx.Amount)
			case cashier.TransactionInflow:
				resp.InflowsTotal = resp.InflowsTotal.Add(tx.Amount)
			case cashier.TransactionOutflow:
				resp.OutflowsTotal = resp.OutflowsTotal.Add(tx.Amount)
			}
		}

		if session.ClosedAt != nil && !session.ClosedAt.Before(from) && session.ClosedAt.Before(to) {
			resp.SessionsClosed++
			variance := decimal.Zero
			if session.Variance != nil {
				variance = *session.Variance
			}
			resp.VarianceTotal = resp.VarianceTotal.Add(variance)
			resp.Sessions = append(resp.Sessions, SessionSummary{
				SessionID: session.ID,
				Register:  session.Register,
				OpenedAt:  session.OpenedAt,
				ClosedAt:  *session.ClosedAt,
				Variance:  variance,
			})
		}
	}

	return nil
}

func (s *ReportService) collectMovements(ctx context.Context, pharmacyID uuid.UUID, from, to time.Time, resp *DailySummaryResponse) error {
	movements, err := s.movementRepo.FindBetween(ctx, pharmacyID, from, to)
	if err != nil {
		return err
	}

	resp.MovementCount = len(movements)
	for i := range movements {
		m := &movements[i]
		switch m.Direction {
		case inventory.MovementInward:
			resp.UnitsReceived += m.Quantity
		case inventory.MovementOutward:
			if m.Reason == inventory.ReasonSale {
				resp.UnitsSold += m.Quantity
			} else {
				resp.UnitsRemoved += m.Quantity
			}
		}
	}

	return nil
}

func (s *ReportService) collectCredit(ctx context.Context, pharmacyID uuid.UUID, resp *DailySummaryResponse) error {
	accounts, err := s.accountRepo.FindAll(ctx, pharmacyID, shared.Filter{Page: 1, PageSize: 0})
	if err != nil {
		return err
	}
	for i := range accounts {
		resp.OutstandingCredit = resp.OutstandingCredit.Add(accounts[i].Balance())
	}
	return nil
}

func (s *ReportService) collectAlerts(ctx context.Context, pharmacyID uuid.UUID, resp *DailySummaryResponse) error {
	now := time.Now()

	products, err := s.productRepo.FindAll(ctx, pharmacyID, shared.Filter{Page: 1, PageSize: 0})
	if err != nil {
		return err
	}
	lots, err := s.lotRepo.FindAll(ctx, pharmacyID, shared.Filter{Page: 1, PageSize: 0})
	if err != nil {
		return err
	}

	resp.LowStockAlerts = len(inventory.DeriveLowStockAlerts(products, lots, now))
	for _, alert := range inventory.DeriveExpiryAlerts(lots, s.horizonDays, now) {
		if alert.Expired {
			resp.ExpiredLots++
		} else {
			resp.ExpiringLots++
		}
	}

	return nil
}
