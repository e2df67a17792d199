package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytebites/orders/internal/domain"
	"github.com/bytebites/orders/internal/interfaces"
)

// stubService lets each test pin the one operation it exercises.
type stubService struct {
	createOrder  func(ctx context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error)
	getOrder     func(ctx context.Context, orderID, customerID int64) (*domain.Order, error)
	cancel       func(ctx context.Context, orderID, customerID int64) (*domain.Order, error)
	updateStatus func(ctx context.Context, orderID int64, newStatus domain.Status, restaurantID int64) (*domain.Order, error)
}

func (s *stubService) CreateOrder(ctx context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	return s.createOrder(ctx, cmd)
}

func (s *stubService) GetCustomerOrders(context.Context, int64) ([]*domain.Order, error) {
	return nil, nil
}

func (s *stubService) GetCustomerOrder(ctx context.Context, orderID, customerID int64) (*domain.Order, error) {
	return s.getOrder(ctx, orderID, customerID)
}

func (s *stubService) GetRestaurantOrders(context.Context, int64) ([]*domain.Order, error) {
	return nil, nil
}

func (s *stubService) GetPendingRestaurantOrders(context.Context, int64) ([]*domain.Order, error) {
	return nil, nil
}

func (s *stubService) UpdateStatus(ctx context.Context, orderID int64, newStatus domain.Status, restaurantID int64) (*domain.Order, error) {
	return s.updateStatus(ctx, orderID, newStatus, restaurantID)
}

func (s *stubService) Cancel(ctx context.Context, orderID, customerID int64) (*domain.Order, error) {
	return s.cancel(ctx, orderID, customerID)
}

func (s *stubService) CustomerStats(context.Context, int64) (interfaces.CustomerOrderStats, error) {
	return interfaces.CustomerOrderStats{TotalOrders: 5, ActiveOrders: 2}, nil
}

func (s *stubService) RestaurantStats(context.Context, int64) (interfaces.RestaurantOrderStats, error) {
	return interfaces.RestaurantOrderStats{TotalOrders: 9, PendingOrders: 3}, nil
}

func newTestMux(service interfaces.OrderService) *http.ServeMux {
	mux := http.NewServeMux()
	NewOrderHandler(service, zerolog.Nop()).Register(mux)
	return mux
}

func asCustomer(r *http.Request) *http.Request {
	r.Header.Set("X-User-Id", "42")
	r.Header.Set("X-User-Role", "CUSTOMER")
	r.Header.Set("X-User-Email", "jo@example.com")
	r.Header.Set("X-User-Name", "Jo")
	return r
}

func asOwner(r *http.Request) *http.Request {
	r.Header.Set("X-User-Id", "8")
	r.Header.Set("X-User-Role", "RESTAURANT_OWNER")
	return r
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:              11,
		CustomerID:      42,
		RestaurantID:    7,
		RestaurantName:  "Testaurant",
		Status:          domain.StatusPending,
		TotalAmount:     decimal.RequireFromString("14.99"),
		DeliveryAddress: "2 Side St",
		Items: []domain.OrderItem{
			{MenuItemID: 1, MenuItemName: "Margherita", Quantity: 2, Price: decimal.RequireFromString("12.00")},
		},
	}
}

func TestCreateOrderReturns201(t *testing.T) {
	var got interfaces.CreateOrderCommand
	service := &stubService{
		createOrder: func(_ context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
			got = cmd
			return sampleOrder(), nil
		},
	}
	mux := newTestMux(service)

	body := `{"restaurant_id":7,"delivery_address":"2 Side St","items":[{"menu_item_id":1,"quantity":2}]}`
	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(42), got.CustomerID)
	assert.Equal(t, "jo@example.com", got.CustomerEmail)
	assert.Equal(t, int64(7), got.RestaurantID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)

	var resp OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(11), resp.ID)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, "14.99", resp.TotalAmount.StringFixed(2))
}

func TestCreateOrderRequiresIdentity(t *testing.T) {
	mux := newTestMux(&stubService{})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrderRejectsWrongRole(t *testing.T) {
	mux := newTestMux(&stubService{})

	req := asOwner(httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{}`)))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateOrderValidation(t *testing.T) {
	mux := newTestMux(&stubService{
		createOrder: func(context.Context, interfaces.CreateOrderCommand) (*domain.Order, error) {
			t.Fatal("service must not be called on validation failure")
			return nil, nil
		},
	})

	body := `{"restaurant_id":0,"delivery_address":" ","items":[{"menu_item_id":1,"quantity":0}]}`
	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp.Error)

	fields := make([]string, len(resp.Errors))
	for i, e := range resp.Errors {
		fields[i] = e.Field
	}
	assert.Contains(t, fields, "restaurant_id")
	assert.Contains(t, fields, "delivery_address")
	assert.Contains(t, fields, "items[0].quantity")
}

func TestDomainErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not_found", domain.ErrOrderNotFound, http.StatusNotFound},
		{"unavailable", domain.ErrRestaurantUnavailable, http.StatusServiceUnavailable},
		{"closed", domain.ErrRestaurantClosed, http.StatusConflict},
		{"item_unavailable", &domain.ItemUnavailableError{ItemName: "Calzone"}, http.StatusConflict},
		{"below_minimum", &domain.BelowMinimumOrderError{
			Subtotal:    decimal.RequireFromString("5.00"),
			Minimum:     decimal.RequireFromString("10.00"),
			DeliveryFee: decimal.RequireFromString("2.99"),
		}, http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mux := newTestMux(&stubService{
				createOrder: func(context.Context, interfaces.CreateOrderCommand) (*domain.Order, error) {
					return nil, tc.err
				},
			})

			body := `{"restaurant_id":7,"delivery_address":"2 Side St","items":[{"menu_item_id":1,"quantity":1}]}`
			req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body)))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestCancelOrder(t *testing.T) {
	cancelled := sampleOrder()
	cancelled.Status = domain.StatusCancelled
	mux := newTestMux(&stubService{
		cancel: func(_ context.Context, orderID, customerID int64) (*domain.Order, error) {
			assert.Equal(t, int64(11), orderID)
			assert.Equal(t, int64(42), customerID)
			return cancelled, nil
		},
	})

	req := asCustomer(httptest.NewRequest(http.MethodPatch, "/api/orders/11/cancel", nil))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CANCELLED", resp.Status)
}

func TestCancelNotCancellableConflicts(t *testing.T) {
	mux := newTestMux(&stubService{
		cancel: func(context.Context, int64, int64) (*domain.Order, error) {
			return nil, domain.ErrNotCancellable
		},
	})

	req := asCustomer(httptest.NewRequest(http.MethodPatch, "/api/orders/11/cancel", nil))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	confirmed := sampleOrder()
	confirmed.Status = domain.StatusConfirmed
	mux := newTestMux(&stubService{
		updateStatus: func(_ context.Context, orderID int64, newStatus domain.Status, restaurantID int64) (*domain.Order, error) {
			assert.Equal(t, int64(11), orderID)
			assert.Equal(t, domain.StatusConfirmed, newStatus)
			assert.Equal(t, int64(7), restaurantID)
			return confirmed, nil
		},
	})

	body := `{"status":"CONFIRMED"}`
	req := asOwner(httptest.NewRequest(http.MethodPatch, "/api/orders/11/status?restaurantId=7", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	mux := newTestMux(&stubService{})

	body := `{"status":"SHIPPED"}`
	req := asOwner(httptest.NewRequest(http.MethodPatch, "/api/orders/11/status?restaurantId=7", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateOrderStatusInvalidTransitionConflicts(t *testing.T) {
	mux := newTestMux(&stubService{
		updateStatus: func(context.Context, int64, domain.Status, int64) (*domain.Order, error) {
			return nil, &domain.InvalidTransitionError{From: domain.StatusPending, To: domain.StatusDelivered}
		},
	})

	body := `{"status":"DELIVERED"}`
	req := asOwner(httptest.NewRequest(http.MethodPatch, "/api/orders/11/status?restaurantId=7", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetOrderHidesForeignOrders(t *testing.T) {
	mux := newTestMux(&stubService{
		getOrder: func(context.Context, int64, int64) (*domain.Order, error) {
			return nil, domain.ErrOrderNotFound
		},
	})

	req := asCustomer(httptest.NewRequest(http.MethodGet, "/api/orders/11", nil))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatsEndpoints(t *testing.T) {
	mux := newTestMux(&stubService{})

	req := asCustomer(httptest.NewRequest(http.MethodGet, "/api/orders/stats/customer", nil))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var customerStats interfaces.CustomerOrderStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customerStats))
	assert.Equal(t, int64(5), customerStats.TotalOrders)
	assert.Equal(t, int64(2), customerStats.ActiveOrders)

	req = asOwner(httptest.NewRequest(http.MethodGet, "/api/orders/stats/restaurant/7", nil))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var restaurantStats interfaces.RestaurantOrderStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &restaurantStats))
	assert.Equal(t, int64(9), restaurantStats.TotalOrders)
	assert.Equal(t, int64(3), restaurantStats.PendingOrders)
}
