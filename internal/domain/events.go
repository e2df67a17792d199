package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderPlacedEvent is published after a new order has been durably
// committed. Delivery is best-effort.
type OrderPlacedEvent struct {
	OrderID         int64            `json:"orderId"`
	CustomerID      int64            `json:"customerId"`
	CustomerEmail   string           `json:"customerEmail"`
	CustomerName    string           `json:"customerName"`
	RestaurantID    int64            `json:"restaurantId"`
	RestaurantName  string           `json:"restaurantName"`
	TotalAmount     decimal.Decimal  `json:"totalAmount"`
	DeliveryAddress string           `json:"deliveryAddress"`
	OrderTime       time.Time        `json:"orderTime"`
	Items           []OrderItemEvent `json:"items"`
}

// OrderItemEvent carries the line total, mirroring the stored item.
type OrderItemEvent struct {
	ItemName string          `json:"itemName"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderStatusChangedEvent is published after a successful status
// transition. ChangedBy is "customer", "restaurant" or "system".
type OrderStatusChangedEvent struct {
	OrderID        int64     `json:"orderId"`
	CustomerID     int64     `json:"customerId"`
	CustomerEmail  string    `json:"customerEmail"`
	RestaurantID   int64     `json:"restaurantId"`
	RestaurantName string    `json:"restaurantName"`
	OldStatus      Status    `json:"oldStatus"`
	NewStatus      Status    `json:"newStatus"`
	ChangedAt      time.Time `json:"changedAt"`
	ChangedBy      string    `json:"changedBy"`
}

// NewOrderPlacedEvent flattens a committed order into its event form.
func NewOrderPlacedEvent(o *Order, customerEmail, customerName string) OrderPlacedEvent {
	items := make([]OrderItemEvent, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemEvent{
			ItemName: item.MenuItemName,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}
	return OrderPlacedEvent{
		OrderID:         o.ID,
		CustomerID:      o.CustomerID,
		CustomerEmail:   customerEmail,
		CustomerName:    customerName,
		RestaurantID:    o.RestaurantID,
		RestaurantName:  o.RestaurantName,
		TotalAmount:     o.TotalAmount,
		DeliveryAddress: o.DeliveryAddress,
		OrderTime:       o.CreatedAt,
		Items:           items,
	}
}
