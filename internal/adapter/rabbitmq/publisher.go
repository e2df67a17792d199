package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/bytebites/orders/internal/config"
	"github.com/bytebites/orders/internal/domain"
	"github.com/bytebites/orders/internal/interfaces"
)

// publisher emits domain events to the topic exchange. Every failure
// is logged and swallowed: the order transaction is already committed
// by the time an event is published, so notification delivery must
// never surface as a request failure. At-most-once, no retries.
type publisher struct {
	conn   Connection
	cfg    config.MessagingConfig
	logger zerolog.Logger
}

func NewPublisher(conn Connection, cfg config.MessagingConfig, lgr zerolog.Logger) interfaces.EventPublisher {
	return &publisher{conn: conn, cfg: cfg, logger: lgr}
}

func (p *publisher) OrderPlaced(ctx context.Context, event domain.OrderPlacedEvent) {
	if err := p.publish(ctx, p.cfg.OrderPlacedRoutingKey, event); err != nil {
		p.logger.Error().
			Err(err).
			Int64("order_id", event.OrderID).
			Str("routing_key", p.cfg.OrderPlacedRoutingKey).
			Msg("failed to publish order placed event")
	}
}

func (p *publisher) OrderStatusChanged(ctx context.Context, event domain.OrderStatusChangedEvent) {
	if err := p.publish(ctx, p.cfg.OrderStatusChangedRoutingKey, event); err != nil {
		p.logger.Error().
			Err(err).
			Int64("order_id", event.OrderID).
			Str("routing_key", p.cfg.OrderStatusChangedRoutingKey).
			Msg("failed to publish order status changed event")
	}
}

func (p *publisher) publish(ctx context.Context, routingKey string, event any) error {
	// The publish boundary carries its own deadline, decoupled from
	// whatever remains of the request budget.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.cfg.PublishTimeout())
	defer cancel()

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(p.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = ch.PublishWithContext(pubCtx, p.cfg.Exchange, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
