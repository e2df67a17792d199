package restaurant

import (
	"github.com/shopspring/decimal"

	"github.com/bytebites/orders/internal/domain"
)

var (
	fallbackDeliveryFee  = decimal.RequireFromString("5.00")
	fallbackMinimumOrder = decimal.RequireFromString("15.00")
	fallbackItemPrice    = decimal.RequireFromString("10.00")
)

// FallbackPolicy produces deterministic substitutes when the
// restaurant service cannot be reached. The fallback restaurant is
// always closed and the fallback item always unavailable, so order
// creation that lands on this path fails downstream instead of
// succeeding with fabricated pricing.
type FallbackPolicy struct{}

func (FallbackPolicy) Restaurant(restaurantID int64) domain.RestaurantLookup {
	return domain.RestaurantLookup{
		Success: false,
		Message: "Restaurant service unavailable",
		Restaurant: domain.RestaurantFacts{
			ID:           restaurantID,
			Name:         "Restaurant Temporarily Unavailable",
			Address:      "Unknown Address",
			IsOpen:       false,
			DeliveryFee:  fallbackDeliveryFee,
			MinimumOrder: fallbackMinimumOrder,
		},
	}
}

func (FallbackPolicy) MenuItem(menuItemID int64) domain.MenuItemLookup {
	return domain.MenuItemLookup{
		Success: false,
		Message: "Restaurant service unavailable",
		Item: domain.MenuItemFacts{
			ID:        menuItemID,
			Name:      "Item Temporarily Unavailable",
			Price:     fallbackItemPrice,
			Available: false,
		},
	}
}
