package restaurant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/bytebites/orders/internal/config"
	"github.com/bytebites/orders/internal/domain"
)

// Client fetches restaurant and menu facts over HTTP. Every call runs
// through a shared circuit breaker keyed by the logical target name:
// while the breaker is open, calls skip the network entirely and the
// fallback policy answers instead. Transport errors never reach the
// caller in raw form.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
	fallback   FallbackPolicy
	logger     zerolog.Logger
}

func NewClient(cfg config.RestaurantServiceConfig, lgr zerolog.Logger) *Client {
	settings := gobreaker.Settings{
		Name:        "restaurant-service",
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval(),
		Timeout:     cfg.Breaker.Cooldown(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.Breaker.MinRequests && failureRatio >= cfg.Breaker.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			lgr.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		breaker:    gobreaker.NewCircuitBreaker(settings),
		fallback:   FallbackPolicy{},
		logger:     lgr,
	}
}

type restaurantEnvelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    domain.RestaurantFacts `json:"data"`
}

type menuItemEnvelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Data    domain.MenuItemFacts `json:"data"`
}

func (c *Client) GetRestaurant(ctx context.Context, restaurantID int64) domain.RestaurantLookup {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetchRestaurant(ctx, restaurantID)
	})
	if err != nil {
		c.logger.Warn().
			Err(err).
			Int64("restaurant_id", restaurantID).
			Msg("restaurant lookup failed, serving fallback")
		return c.fallback.Restaurant(restaurantID)
	}
	return result.(domain.RestaurantLookup)
}

func (c *Client) GetMenuItem(ctx context.Context, restaurantID, menuItemID int64) domain.MenuItemLookup {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetchMenuItem(ctx, restaurantID, menuItemID)
	})
	if err != nil {
		c.logger.Warn().
			Err(err).
			Int64("restaurant_id", restaurantID).
			Int64("menu_item_id", menuItemID).
			Msg("menu item lookup failed, serving fallback")
		return c.fallback.MenuItem(menuItemID)
	}
	return result.(domain.MenuItemLookup)
}

func (c *Client) fetchRestaurant(ctx context.Context, restaurantID int64) (domain.RestaurantLookup, error) {
	url := fmt.Sprintf("%s/api/restaurants/%d", c.baseURL, restaurantID)

	var env restaurantEnvelope
	if err := c.get(ctx, url, &env); err != nil {
		return domain.RestaurantLookup{}, err
	}

	return domain.RestaurantLookup{
		Success:    env.Success,
		Message:    env.Message,
		Restaurant: env.Data,
	}, nil
}

func (c *Client) fetchMenuItem(ctx context.Context, restaurantID, menuItemID int64) (domain.MenuItemLookup, error) {
	url := fmt.Sprintf("%s/api/restaurants/%d/menu/%d", c.baseURL, restaurantID, menuItemID)

	var env menuItemEnvelope
	if err := c.get(ctx, url, &env); err != nil {
		return domain.MenuItemLookup{}, err
	}

	return domain.MenuItemLookup{
		Success: env.Success,
		Message: env.Message,
		Item:    env.Data,
	}, nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
