package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bytebites/orders/internal/domain"
	"github.com/bytebites/orders/internal/interfaces"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order and all of its items in one transaction.
// Either everything is committed or nothing is.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (customer_id, restaurant_id, restaurant_name, status,
		                    total_amount, delivery_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		order.CustomerID, order.RestaurantID, order.RestaurantName, order.Status,
		order.TotalAmount, order.DeliveryAddress, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		itemQuery := `
			INSERT INTO order_items (order_id, menu_item_id, menu_item_name, quantity, price, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		err = tx.QueryRow(ctx, itemQuery,
			order.ID, order.Items[i].MenuItemID, order.Items[i].MenuItemName,
			order.Items[i].Quantity, order.Items[i].Price, time.Now().UTC(),
		).Scan(&order.Items[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
		order.Items[i].OrderID = order.ID
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `
		SELECT id, customer_id, restaurant_id, restaurant_name, status,
		       total_amount, delivery_address, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order domain.Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.CustomerID, &order.RestaurantID, &order.RestaurantName,
		&order.Status, &order.TotalAmount, &order.DeliveryAddress,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if err := r.loadItems(ctx, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) FindByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	query := `
		SELECT id, customer_id, restaurant_id, restaurant_name, status,
		       total_amount, delivery_address, created_at, updated_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`
	return r.queryOrders(ctx, query, customerID)
}

func (r *orderRepository) FindByRestaurant(ctx context.Context, restaurantID int64, status *domain.Status) ([]*domain.Order, error) {
	if status != nil {
		query := `
			SELECT id, customer_id, restaurant_id, restaurant_name, status,
			       total_amount, delivery_address, created_at, updated_at
			FROM orders
			WHERE restaurant_id = $1 AND status = $2
			ORDER BY created_at DESC
		`
		return r.queryOrders(ctx, query, restaurantID, *status)
	}

	query := `
		SELECT id, customer_id, restaurant_id, restaurant_name, status,
		       total_amount, delivery_address, created_at, updated_at
		FROM orders
		WHERE restaurant_id = $1
		ORDER BY created_at DESC
	`
	return r.queryOrders(ctx, query, restaurantID)
}

// UpdateStatus persists a status transition. Status and updated_at are
// the only columns ever mutated after creation.
func (r *orderRepository) UpdateStatus(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	tag, err := r.db.Exec(ctx, query, order.Status, order.UpdatedAt, order.ID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM orders WHERE customer_id = $1`, customerID)
}

func (r *orderRepository) CountActiveByCustomer(ctx context.Context, customerID int64) (int64, error) {
	query := `
		SELECT COUNT(*) FROM orders
		WHERE customer_id = $1 AND status NOT IN ($2, $3)
	`
	return r.count(ctx, query, customerID, domain.StatusDelivered, domain.StatusCancelled)
}

func (r *orderRepository) CountByRestaurant(ctx context.Context, restaurantID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM orders WHERE restaurant_id = $1`, restaurantID)
}

func (r *orderRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID, &order.CustomerID, &order.RestaurantID, &order.RestaurantName,
			&order.Status, &order.TotalAmount, &order.DeliveryAddress,
			&order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	for _, order := range orders {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (r *orderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	query := `
		SELECT id, order_id, menu_item_id, menu_item_name, quantity, price, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.MenuItemName,
			&item.Quantity, &item.Price, &item.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate order items: %w", err)
	}
	return nil
}
