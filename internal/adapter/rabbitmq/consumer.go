package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bytebites/orders/internal/config"
	"github.com/bytebites/orders/internal/interfaces"
)

type consumer struct {
	conn     Connection
	cfg      config.MessagingConfig
	prefetch int
	logger   zerolog.Logger
}

func NewConsumer(conn Connection, cfg config.MessagingConfig, prefetch int, lgr zerolog.Logger) interfaces.EventConsumer {
	return &consumer{conn: conn, cfg: cfg, prefetch: prefetch, logger: lgr}
}

// ConsumeOrderEvents drains both order event queues until the context
// is cancelled. On a broker disconnect it backs off and reconnects.
func (c *consumer) ConsumeOrderEvents(ctx context.Context, handler interfaces.EventHandler) error {
	for {
		err := c.consumeWithReconnect(ctx, handler)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			return nil
		}

		c.logger.Error().Err(err).Msg("event consumer disconnected, reconnecting in 5s")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
}

func (c *consumer) consumeWithReconnect(ctx context.Context, handler interfaces.EventHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	if err := c.declareTopology(ch); err != nil {
		return err
	}

	placed, err := ch.Consume(c.cfg.OrderPlacedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming %s: %w", c.cfg.OrderPlacedQueue, err)
	}
	statusChanged, err := ch.Consume(c.cfg.OrderStatusChangedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming %s: %w", c.cfg.OrderStatusChangedQueue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return fmt.Errorf("channel closed gracefully")

		case msg, ok := <-placed:
			if !ok {
				return fmt.Errorf("order placed deliveries closed")
			}
			c.dispatch(ctx, handler, msg.RoutingKey, msg.Body, msg.Ack, msg.Nack)

		case msg, ok := <-statusChanged:
			if !ok {
				return fmt.Errorf("status changed deliveries closed")
			}
			c.dispatch(ctx, handler, msg.RoutingKey, msg.Body, msg.Ack, msg.Nack)
		}
	}
}

func (c *consumer) dispatch(ctx context.Context, handler interfaces.EventHandler, key string, body []byte,
	ack func(bool) error, nack func(bool, bool) error) {
	if err := handler(ctx, key, body); err != nil {
		c.logger.Error().Err(err).Str("routing_key", key).Msg("failed to handle event")
		// Malformed or unprocessable events are dropped, not requeued.
		_ = nack(false, false)
		return
	}
	_ = ack(false)
}

func (c *consumer) declareTopology(ch Channel) error {
	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	bindings := []struct {
		queue string
		key   string
	}{
		{c.cfg.OrderPlacedQueue, c.cfg.OrderPlacedRoutingKey},
		{c.cfg.OrderStatusChangedQueue, c.cfg.OrderStatusChangedRoutingKey},
	}

	for _, b := range bindings {
		if _, err := ch.QueueDeclare(b.queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", b.queue, err)
		}
		if err := ch.QueueBind(b.queue, b.key, c.cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s: %w", b.queue, err)
		}
	}
	return nil
}
