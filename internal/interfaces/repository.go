package interfaces

import (
	"context"

	"github.com/bytebites/orders/internal/domain"
)

// OrderRepository is the single writer of record for orders. Create
// persists the order and all of its items atomically.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	FindByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error)
	FindByRestaurant(ctx context.Context, restaurantID int64, status *domain.Status) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, order *domain.Order) error
	CountByCustomer(ctx context.Context, customerID int64) (int64, error)
	CountActiveByCustomer(ctx context.Context, customerID int64) (int64, error)
	CountByRestaurant(ctx context.Context, restaurantID int64) (int64, error)
}
