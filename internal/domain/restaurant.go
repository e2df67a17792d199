package domain

import "github.com/shopspring/decimal"

// RestaurantFacts is the authoritative restaurant snapshot served by
// the restaurant service at validation time.
type RestaurantFacts struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	IsOpen       bool            `json:"open"`
	DeliveryFee  decimal.Decimal `json:"deliveryFee"`
	MinimumOrder decimal.Decimal `json:"minimumOrder"`
}

// MenuItemFacts is the authoritative menu item snapshot. Price is the
// unit price.
type MenuItemFacts struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
}

// RestaurantLookup carries the restaurant service response envelope.
// Success is false when the authority could not be reached and the
// facts are a degraded fallback.
type RestaurantLookup struct {
	Success    bool
	Message    string
	Restaurant RestaurantFacts
}

// MenuItemLookup is the envelope for a single menu item.
type MenuItemLookup struct {
	Success bool
	Message string
	Item    MenuItemFacts
}
