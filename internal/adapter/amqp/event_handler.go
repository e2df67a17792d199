package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bytebites/orders/internal/config"
	"github.com/bytebites/orders/internal/domain"
)

// EventHandler turns order events into customer notifications. This
// is the consuming end of the best-effort event stream: deliveries
// may be missing, and handling is idempotent logging only.
type EventHandler struct {
	cfg    config.MessagingConfig
	logger zerolog.Logger
}

func NewEventHandler(cfg config.MessagingConfig, lgr zerolog.Logger) *EventHandler {
	return &EventHandler{cfg: cfg, logger: lgr}
}

func (h *EventHandler) HandleEvent(ctx context.Context, routingKey string, body []byte) error {
	switch routingKey {
	case h.cfg.OrderPlacedRoutingKey:
		return h.handleOrderPlaced(body)
	case h.cfg.OrderStatusChangedRoutingKey:
		return h.handleOrderStatusChanged(body)
	}
	return fmt.Errorf("unexpected routing key %q", routingKey)
}

func (h *EventHandler) handleOrderPlaced(body []byte) error {
	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to parse order placed event: %w", err)
	}

	h.logger.Info().
		Int64("order_id", event.OrderID).
		Str("customer", event.CustomerName).
		Str("restaurant", event.RestaurantName).
		Str("total", event.TotalAmount.StringFixed(2)).
		Int("items", len(event.Items)).
		Msg("order placed notification")

	fmt.Printf("Order confirmation for %s <%s>: order #%d at %s, total $%s, delivery to %s\n",
		event.CustomerName, event.CustomerEmail, event.OrderID,
		event.RestaurantName, event.TotalAmount.StringFixed(2), event.DeliveryAddress)

	return nil
}

func (h *EventHandler) handleOrderStatusChanged(body []byte) error {
	var event domain.OrderStatusChangedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to parse status changed event: %w", err)
	}

	h.logger.Info().
		Int64("order_id", event.OrderID).
		Str("old_status", string(event.OldStatus)).
		Str("new_status", string(event.NewStatus)).
		Str("changed_by", event.ChangedBy).
		Msg("order status notification")

	fmt.Printf("Status update for order #%d: %s -> %s (by %s)\n",
		event.OrderID, event.OldStatus, event.NewStatus, event.ChangedBy)

	return nil
}
