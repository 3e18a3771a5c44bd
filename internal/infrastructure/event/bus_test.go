package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	seen   []shared.DomainEvent
	err    error
	panics bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.seen)
}

func newTestEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "StockLot", uuid.New(), uuid.New())
	return &e
}

func TestInMemoryEventBus(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches to typed handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		lotHandler := &recordingHandler{types: []string{"inventory.lot.received"}}
		saleHandler := &recordingHandler{types: []string{"sales.completed"}}
		bus.Subscribe(lotHandler)
		bus.Subscribe(saleHandler)

		err := bus.Publish(ctx, newTestEvent("inventory.lot.received"))
		require.NoError(t, err)

		assert.Equal(t, 1, lotHandler.count())
		assert.Equal(t, 0, saleHandler.count())
	})

	t.Run("wildcard handlers receive everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		audit := &recordingHandler{}
		bus.Subscribe(audit)

		err := bus.Publish(ctx,
			newTestEvent("inventory.lot.received"),
			newTestEvent("credit.debt.recorded"),
		)
		require.NoError(t, err)

		assert.Equal(t, 2, audit.count())
	})

	t.Run("failing handler does not block others", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{"sales.completed"}, err: errors.New("boom")}
		healthy := &recordingHandler{types: []string{"sales.completed"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		err := bus.Publish(ctx, newTestEvent("sales.completed"))
		require.NoError(t, err)
		assert.Equal(t, 1, healthy.count())
	})

	t.Run("panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{types: []string{"sales.completed"}, panics: true}
		healthy := &recordingHandler{types: []string{"sales.completed"}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NotPanics(t, func() {
			_ = bus.Publish(ctx, newTestEvent("sales.completed"))
		})
		assert.Equal(t, 1, healthy.count())
	})

	t.Run("unsubscribed handler stops receiving", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"sales.completed"}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, newTestEvent("sales.completed")))
		bus.Unsubscribe(handler)
		require.NoError(t, bus.Publish(ctx, newTestEvent("sales.completed")))

		assert.Equal(t, 1, handler.count())
	})
}
