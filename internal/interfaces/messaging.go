package interfaces

import (
	"context"

	"github.com/bytebites/orders/internal/domain"
)

// EventPublisher emits domain events to the message bus. Publishing
// is at-most-once and best-effort: implementations swallow transport
// failures and report them via logs only, so a publish can never fail
// the transaction that triggered it.
type EventPublisher interface {
	OrderPlaced(ctx context.Context, event domain.OrderPlacedEvent)
	OrderStatusChanged(ctx context.Context, event domain.OrderStatusChangedEvent)
}

// EventHandler processes one raw event delivery. The routing key
// identifies the event type.
type EventHandler func(ctx context.Context, routingKey string, body []byte) error

// EventConsumer feeds order events to a handler until the context is
// cancelled, reconnecting on broker failures.
type EventConsumer interface {
	ConsumeOrderEvents(ctx context.Context, handler EventHandler) error
}

// NopPublisher discards all events. Used when no message bus is
// configured.
type NopPublisher struct{}

func (NopPublisher) OrderPlaced(context.Context, domain.OrderPlacedEvent)               {}
func (NopPublisher) OrderStatusChanged(context.Context, domain.OrderStatusChangedEvent) {}
