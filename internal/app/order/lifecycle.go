package order

import (
	"context"
	"fmt"
	"time"

	"github.com/bytebites/orders/internal/domain"
)

// TODO: resolve customer contact details from the auth service instead
// of this placeholder once the identity lookup endpoint exists.
const placeholderCustomerEmail = "customer@example.com"

// UpdateStatus applies a restaurant-driven status transition. The
// caller must own the order's restaurant, and the transition must be
// allowed by the state machine. On success an OrderStatusChanged event
// is published best-effort.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, newStatus domain.Status, restaurantID int64) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.RestaurantID != restaurantID {
		return nil, fmt.Errorf("%w: you can only update orders for your restaurant", domain.ErrForbidden)
	}

	oldStatus := order.Status
	if err := order.TransitionTo(newStatus); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("order_id", order.ID).
		Str("old_status", string(oldStatus)).
		Str("new_status", string(newStatus)).
		Msg("order status updated")

	s.publisher.OrderStatusChanged(ctx, domain.OrderStatusChangedEvent{
		OrderID:        order.ID,
		CustomerID:     order.CustomerID,
		CustomerEmail:  placeholderCustomerEmail,
		RestaurantID:   order.RestaurantID,
		RestaurantName: order.RestaurantName,
		OldStatus:      oldStatus,
		NewStatus:      newStatus,
		ChangedAt:      time.Now().UTC(),
		ChangedBy:      "restaurant",
	})

	return order, nil
}

// Cancel is the customer-driven path to CANCELLED. Only the order's
// owner may cancel, and only while the order is PENDING or CONFIRMED.
// No event is emitted on this path.
func (s *Service) Cancel(ctx context.Context, orderID, customerID int64) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.CustomerID != customerID {
		return nil, fmt.Errorf("%w: you can only cancel your own orders", domain.ErrForbidden)
	}

	if !order.Cancellable() {
		return nil, fmt.Errorf("%w: order is %s", domain.ErrNotCancellable, order.Status)
	}

	if err := order.TransitionTo(domain.StatusCancelled); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("order_id", order.ID).
		Int64("customer_id", customerID).
		Msg("order cancelled")

	return order, nil
}
