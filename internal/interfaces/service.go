package interfaces

import (
	"context"

	"github.com/bytebites/orders/internal/domain"
)

// CreateOrderCommand is the already-authenticated input to the order
// creation use case. Customer identity comes from the upstream
// gateway; the core performs no credential validation.
type CreateOrderCommand struct {
	CustomerID      int64
	CustomerEmail   string
	CustomerName    string
	RestaurantID    int64
	DeliveryAddress string
	Items           []OrderItemCommand
}

// OrderItemCommand references a menu item by catalog id. Pricing and
// naming are resolved against the restaurant authority, never trusted
// from the request.
type OrderItemCommand struct {
	MenuItemID int64
	Quantity   int
}

type CustomerOrderStats struct {
	TotalOrders  int64 `json:"total_orders"`
	ActiveOrders int64 `json:"active_orders"`
}

type RestaurantOrderStats struct {
	TotalOrders   int64 `json:"total_orders"`
	PendingOrders int64 `json:"pending_orders"`
}

// OrderService is the order orchestration and lifecycle use case.
type OrderService interface {
	CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
	GetCustomerOrders(ctx context.Context, customerID int64) ([]*domain.Order, error)
	GetCustomerOrder(ctx context.Context, orderID, customerID int64) (*domain.Order, error)
	GetRestaurantOrders(ctx context.Context, restaurantID int64) ([]*domain.Order, error)
	GetPendingRestaurantOrders(ctx context.Context, restaurantID int64) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, newStatus domain.Status, restaurantID int64) (*domain.Order, error)
	Cancel(ctx context.Context, orderID, customerID int64) (*domain.Order, error)
	CustomerStats(ctx context.Context, customerID int64) (CustomerOrderStats, error)
	RestaurantStats(ctx context.Context, restaurantID int64) (RestaurantOrderStats, error)
}
