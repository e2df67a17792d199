package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrRestaurantUnavailable covers every failed authority fetch:
	// circuit open, timeout, transport error, bad payload.
	ErrRestaurantUnavailable = errors.New("restaurant service is currently unavailable")

	ErrRestaurantClosed = errors.New("restaurant is currently closed")
	ErrEmptyOrder       = errors.New("order must contain at least one item")
	ErrOrderNotFound    = errors.New("order not found")

	// ErrForbidden means the caller does not own the resource.
	ErrForbidden = errors.New("access denied")

	// ErrNotCancellable means the order has progressed past the point
	// where the customer may cancel.
	ErrNotCancellable = errors.New("order can no longer be cancelled")
)

// ItemUnavailableError names the first menu item that failed
// availability validation; later items are never checked.
type ItemUnavailableError struct {
	ItemName string
}

func (e *ItemUnavailableError) Error() string {
	return fmt.Sprintf("menu item %q is not available", e.ItemName)
}

// BelowMinimumOrderError reports the minimum-order shortfall. The
// minimum applies to the subtotal, excluding the delivery fee.
type BelowMinimumOrderError struct {
	Subtotal    decimal.Decimal
	Minimum     decimal.Decimal
	DeliveryFee decimal.Decimal
}

func (e *BelowMinimumOrderError) Error() string {
	return fmt.Sprintf("order subtotal must be at least $%s (excluding delivery fee of $%s)",
		e.Minimum.StringFixed(2), e.DeliveryFee.StringFixed(2))
}

type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}
