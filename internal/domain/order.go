package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the aggregate root for a placed order. It is created only
// through the order orchestration use case and mutated only by the
// status lifecycle; every other field is frozen at creation time.
type Order struct {
	ID              int64
	CustomerID      int64
	RestaurantID    int64
	RestaurantName  string // cached for display, never refreshed
	Status          Status
	TotalAmount     decimal.Decimal
	DeliveryAddress string
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is owned by exactly one order. Price is the line total
// (unit price already multiplied by quantity), not the unit price.
type OrderItem struct {
	ID           int64
	OrderID      int64
	MenuItemID   int64
	MenuItemName string // cached from the menu catalog at order time
	Quantity     int
	Price        decimal.Decimal
	CreatedAt    time.Time
}

// NewOrder builds a PENDING order from already priced and validated
// line items. The total must have been computed by the pricing engine;
// it is never recomputed afterwards.
func NewOrder(customerID, restaurantID int64, restaurantName, deliveryAddress string, total decimal.Decimal, items []OrderItem) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	now := time.Now().UTC()
	return &Order{
		CustomerID:      customerID,
		RestaurantID:    restaurantID,
		RestaurantName:  restaurantName,
		DeliveryAddress: deliveryAddress,
		Status:          StatusPending,
		TotalAmount:     total,
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// TransitionTo moves the order to newStatus if the state machine
// allows it, refreshing UpdatedAt.
func (o *Order) TransitionTo(newStatus Status) error {
	if !o.Status.CanTransitionTo(newStatus) {
		return &InvalidTransitionError{From: o.Status, To: newStatus}
	}
	o.Status = newStatus
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// Cancellable reports whether the customer may still cancel.
func (o *Order) Cancellable() bool {
	return o.Status == StatusPending || o.Status == StatusConfirmed
}
