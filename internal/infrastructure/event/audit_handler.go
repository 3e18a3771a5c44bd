package event

import (
	"context"

	"github.com/asspharma/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var _ shared.EventHandler = (*AuditLogHandler)(nil)

// AuditLogHandler writes every domain event to the structured log. It is
// the trace of record for sensitive operations (lot destructions, credit
// grants, dispensations) until a dedicated audit store exists.
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates an audit handler writing to the given logger
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogHandler{logger: logger.Named("audit")}
}

// EventTypes returns an empty slice: the handler receives all events
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

// Handle logs the event envelope
func (h *AuditLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("pharmacy_id", event.PharmacyID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}
