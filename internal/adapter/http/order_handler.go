package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bytebites/orders/internal/domain"
	"github.com/bytebites/orders/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  zerolog.Logger
}

func NewOrderHandler(service interfaces.OrderService, lgr zerolog.Logger) *OrderHandler {
	return &OrderHandler{service: service, logger: lgr}
}

// Register wires all order routes onto the mux.
func (h *OrderHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/orders", h.CreateOrder)
	mux.HandleFunc("GET /api/orders/my-orders", h.GetMyOrders)
	mux.HandleFunc("GET /api/orders/stats/customer", h.GetCustomerStats)
	mux.HandleFunc("GET /api/orders/stats/restaurant/{restaurantId}", h.GetRestaurantStats)
	mux.HandleFunc("GET /api/orders/restaurant/{restaurantId}", h.GetRestaurantOrders)
	mux.HandleFunc("GET /api/orders/restaurant/{restaurantId}/pending", h.GetPendingRestaurantOrders)
	mux.HandleFunc("GET /api/orders/{orderId}", h.GetOrder)
	mux.HandleFunc("PATCH /api/orders/{orderId}/cancel", h.CancelOrder)
	mux.HandleFunc("PATCH /api/orders/{orderId}/status", h.UpdateOrderStatus)
}

type CreateOrderRequest struct {
	RestaurantID    int64              `json:"restaurant_id"`
	DeliveryAddress string             `json:"delivery_address"`
	Items           []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	MenuItemID int64 `json:"menu_item_id"`
	Quantity   int   `json:"quantity"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type OrderResponse struct {
	ID              int64               `json:"id"`
	RestaurantID    int64               `json:"restaurant_id"`
	RestaurantName  string              `json:"restaurant_name"`
	Status          string              `json:"status"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	DeliveryAddress string              `json:"delivery_address"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Items           []OrderItemResponse `json:"items"`
}

type OrderItemResponse struct {
	MenuItemID   int64           `json:"menu_item_id"`
	MenuItemName string          `json:"menu_item_name"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireRole(w, r, RoleCustomer)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if validationErrors := validateCreateOrderRequest(req); len(validationErrors) > 0 {
		h.respondValidationErrors(w, validationErrors)
		return
	}

	cmd := interfaces.CreateOrderCommand{
		CustomerID:      caller.UserID,
		CustomerEmail:   caller.Email,
		CustomerName:    caller.Name,
		RestaurantID:    req.RestaurantID,
		DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
		Items:           convertItemsToCommand(req.Items),
	}

	order, err := h.service.CreateOrder(r.Context(), cmd)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireRole(w, r, RoleCustomer)
	if !ok {
		return
	}

	orders, err := h.service.GetCustomerOrders(r.Context(), caller.UserID)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireRole(w, r, RoleCustomer)
	if !ok {
		return
	}

	orderID, ok := h.pathID(w, r, "orderId")
	if !ok {
		return
	}

	order, err := h.service.GetCustomerOrder(r.Context(), orderID, caller.UserID)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireRole(w, r, RoleCustomer)
	if !ok {
		return
	}

	orderID, ok := h.pathID(w, r, "orderId")
	if !ok {
		return
	}

	order, err := h.service.Cancel(r.Context(), orderID, caller.UserID)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	_, ok := h.requireRole(w, r, RoleRestaurantOwner)
	if !ok {
		return
	}

	orderID, ok := h.pathID(w, r, "orderId")
	if !ok {
		return
	}

	restaurantID, err := strconv.ParseInt(r.URL.Query().Get("restaurantId"), 10, 64)
	if err != nil || restaurantID <= 0 {
		h.respondError(w, "restaurantId query parameter is required", http.StatusBadRequest)
		return
	}

	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	newStatus, err := domain.ParseStatus(req.Status)
	if err != nil {
		h.respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), orderID, newStatus, restaurantID)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) GetRestaurantOrders(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, RoleRestaurantOwner); !ok {
		return
	}

	restaurantID, ok := h.pathID(w, r, "restaurantId")
	if !ok {
		return
	}

	orders, err := h.service.GetRestaurantOrders(r.Context(), restaurantID)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *OrderHandler) GetPendingRestaurantOrders(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, RoleRestaurantOwner); !ok {
		return
	}

	restaurantID, ok := h.pathID(w, r, "restaurantId")
	if !ok {
		return
	}

	orders, err := h.service.GetPendingRestaurantOrders(r.Context(), restaurantID)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *OrderHandler) GetCustomerStats(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireRole(w, r, RoleCustomer)
	if !ok {
		return
	}

	stats, err := h.service.CustomerStats(r.Context(), caller.UserID)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, stats)
}

func (h *OrderHandler) GetRestaurantStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, RoleRestaurantOwner); !ok {
		return
	}

	restaurantID, ok := h.pathID(w, r, "restaurantId")
	if !ok {
		return
	}

	stats, err := h.service.RestaurantStats(r.Context(), restaurantID)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, stats)
}

func validateCreateOrderRequest(req CreateOrderRequest) []ValidationError {
	var errs []ValidationError

	if req.RestaurantID <= 0 {
		errs = append(errs, ValidationError{
			Field:   "restaurant_id",
			Message: "restaurant id is required",
		})
	}

	if len(strings.TrimSpace(req.DeliveryAddress)) < 1 {
		errs = append(errs, ValidationError{
			Field:   "delivery_address",
			Message: "delivery address is required",
		})
	}

	if len(req.Items) < 1 {
		errs = append(errs, ValidationError{
			Field:   "items",
			Message: "order must contain at least 1 item",
		})
	} else if len(req.Items) > 20 {
		errs = append(errs, ValidationError{
			Field:   "items",
			Message: "order must not contain more than 20 items",
		})
	}

	for i, item := range req.Items {
		itemPrefix := fmt.Sprintf("items[%d]", i)

		if item.MenuItemID <= 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.menu_item_id", itemPrefix),
				Message: "menu item id is required",
			})
		}
		if item.Quantity < 1 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.quantity", itemPrefix),
				Message: "item quantity must be at least 1",
			})
		}
	}

	return errs
}

func convertItemsToCommand(items []OrderItemRequest) []interfaces.OrderItemCommand {
	result := make([]interfaces.OrderItemCommand, len(items))
	for i, item := range items {
		result[i] = interfaces.OrderItemCommand{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
		}
	}
	return result
}

func toOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			MenuItemID:   item.MenuItemID,
			MenuItemName: item.MenuItemName,
			Quantity:     item.Quantity,
			Price:        item.Price,
		}
	}
	return OrderResponse{
		ID:              order.ID,
		RestaurantID:    order.RestaurantID,
		RestaurantName:  order.RestaurantName,
		Status:          string(order.Status),
		TotalAmount:     order.TotalAmount,
		DeliveryAddress: order.DeliveryAddress,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
		Items:           items,
	}
}

func toOrderResponses(orders []*domain.Order) []OrderResponse {
	result := make([]OrderResponse, len(orders))
	for i, order := range orders {
		result[i] = toOrderResponse(order)
	}
	return result
}

func (h *OrderHandler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, fmt.Sprintf("invalid %s", name), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// respondDomainError translates the core error taxonomy into HTTP
// status codes. Every core failure is per-request and recoverable.
func (h *OrderHandler) respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Warn().
		Str("request_id", RequestIDFromContext(r.Context())).
		Err(err).
		Msg("request failed")

	var itemErr *domain.ItemUnavailableError
	var minErr *domain.BelowMinimumOrderError
	var transitionErr *domain.InvalidTransitionError

	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		h.respondError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrForbidden):
		h.respondError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrRestaurantUnavailable):
		h.respondError(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, domain.ErrRestaurantClosed),
		errors.Is(err, domain.ErrNotCancellable),
		errors.As(err, &itemErr),
		errors.As(err, &transitionErr):
		h.respondError(w, err.Error(), http.StatusConflict)
	case errors.As(err, &minErr):
		h.respondError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrEmptyOrder):
		h.respondError(w, err.Error(), http.StatusBadRequest)
	default:
		h.respondError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *OrderHandler) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *OrderHandler) respondError(w http.ResponseWriter, message string, status int) {
	h.respondJSON(w, status, ErrorResponse{Error: message})
}

func (h *OrderHandler) respondValidationErrors(w http.ResponseWriter, validationErrors []ValidationError) {
	h.respondJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:  "Validation failed",
		Errors: validationErrors,
	})
}
