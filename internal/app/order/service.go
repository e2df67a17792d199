package order

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bytebites/orders/internal/domain"
	"github.com/bytebites/orders/internal/interfaces"
)

// Service is the order orchestration use case: it drives authority
// lookups, pricing, atomic persistence and best-effort event emission
// for a single create-order request, and serves the order queries.
type Service struct {
	repo      interfaces.OrderRepository
	pricing   *PricingEngine
	publisher interfaces.EventPublisher
	logger    zerolog.Logger
}

func NewService(repo interfaces.OrderRepository, authority interfaces.RestaurantAuthority,
	publisher interfaces.EventPublisher, lgr zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		pricing:   NewPricingEngine(authority),
		publisher: publisher,
		logger:    lgr,
	}
}

// CreateOrder validates and prices the cart, persists the order with
// its items atomically, and publishes an OrderPlaced event. A pricing
// or validation failure aborts before any write; an event publish
// failure never fails the request, since the order is already
// committed by then.
func (s *Service) CreateOrder(ctx context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	priced, err := s.pricing.Price(ctx, cmd.RestaurantID, cmd.Items)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int64("customer_id", cmd.CustomerID).
			Int64("restaurant_id", cmd.RestaurantID).
			Msg("order validation failed")
		return nil, err
	}

	order, err := domain.NewOrder(cmd.CustomerID, cmd.RestaurantID,
		priced.Restaurant.Name, cmd.DeliveryAddress, priced.Total, priced.Items)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Int64("customer_id", cmd.CustomerID).Msg("failed to persist order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Reload to return the order as stored, items included.
	created, err := s.repo.FindByID(ctx, order.ID)
	if err != nil {
		created = order
	}

	s.logger.Info().
		Int64("order_id", created.ID).
		Int64("customer_id", created.CustomerID).
		Str("total", created.TotalAmount.StringFixed(2)).
		Int("items", len(created.Items)).
		Msg("order created")

	s.publisher.OrderPlaced(ctx, domain.NewOrderPlacedEvent(created, cmd.CustomerEmail, cmd.CustomerName))

	return created, nil
}

func (s *Service) GetCustomerOrders(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	return s.repo.FindByCustomer(ctx, customerID)
}

// GetCustomerOrder returns the order only to its owner; a foreign
// order is indistinguishable from a missing one.
func (s *Service) GetCustomerOrder(ctx context.Context, orderID, customerID int64) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *Service) GetRestaurantOrders(ctx context.Context, restaurantID int64) ([]*domain.Order, error) {
	return s.repo.FindByRestaurant(ctx, restaurantID, nil)
}

func (s *Service) GetPendingRestaurantOrders(ctx context.Context, restaurantID int64) ([]*domain.Order, error) {
	pending := domain.StatusPending
	return s.repo.FindByRestaurant(ctx, restaurantID, &pending)
}

func (s *Service) CustomerStats(ctx context.Context, customerID int64) (interfaces.CustomerOrderStats, error) {
	total, err := s.repo.CountByCustomer(ctx, customerID)
	if err != nil {
		return interfaces.CustomerOrderStats{}, err
	}
	active, err := s.repo.CountActiveByCustomer(ctx, customerID)
	if err != nil {
		return interfaces.CustomerOrderStats{}, err
	}
	return interfaces.CustomerOrderStats{TotalOrders: total, ActiveOrders: active}, nil
}

func (s *Service) RestaurantStats(ctx context.Context, restaurantID int64) (interfaces.RestaurantOrderStats, error) {
	total, err := s.repo.CountByRestaurant(ctx, restaurantID)
	if err != nil {
		return interfaces.RestaurantOrderStats{}, err
	}
	pending := domain.StatusPending
	pendingOrders, err := s.repo.FindByRestaurant(ctx, restaurantID, &pending)
	if err != nil {
		return interfaces.RestaurantOrderStats{}, err
	}
	return interfaces.RestaurantOrderStats{
		TotalOrders:   total,
		PendingOrders: int64(len(pendingOrders)),
	}, nil
}
