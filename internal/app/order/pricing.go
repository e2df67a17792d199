package order

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bytebites/orders/internal/domain"
	"github.com/bytebites/orders/internal/interfaces"
)

// PricingEngine validates a requested cart against authoritative
// restaurant data and computes the order total. Validation is strict
// and fail-fast: the first invalid fact aborts before anything is
// written, so a pricing failure never leaves a partial order behind.
type PricingEngine struct {
	authority interfaces.RestaurantAuthority
}

func NewPricingEngine(authority interfaces.RestaurantAuthority) *PricingEngine {
	return &PricingEngine{authority: authority}
}

// PricedOrder is the validated, fully priced result. Items carry line
// totals (unit price already multiplied by quantity).
type PricedOrder struct {
	Restaurant domain.RestaurantFacts
	Items      []domain.OrderItem
	Subtotal   decimal.Decimal
	Total      decimal.Decimal
}

// Price resolves restaurant and menu facts and produces a priced
// order, or the first validation failure encountered. Items are
// checked in request order; items after the first unavailable one are
// never fetched.
func (e *PricingEngine) Price(ctx context.Context, restaurantID int64, items []interfaces.OrderItemCommand) (*PricedOrder, error) {
	lookup := e.authority.GetRestaurant(ctx, restaurantID)
	if !lookup.Success {
		return nil, fmt.Errorf("%w: %s", domain.ErrRestaurantUnavailable, lookup.Message)
	}

	restaurant := lookup.Restaurant
	if !restaurant.IsOpen {
		return nil, domain.ErrRestaurantClosed
	}

	subtotal := decimal.Zero
	priced := make([]domain.OrderItem, 0, len(items))

	for _, req := range items {
		itemLookup := e.authority.GetMenuItem(ctx, restaurantID, req.MenuItemID)
		if !itemLookup.Item.Available {
			return nil, &domain.ItemUnavailableError{ItemName: itemLookup.Item.Name}
		}

		lineTotal := itemLookup.Item.Price.Mul(decimal.NewFromInt(int64(req.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		priced = append(priced, domain.OrderItem{
			MenuItemID:   req.MenuItemID,
			MenuItemName: itemLookup.Item.Name,
			Quantity:     req.Quantity,
			Price:        lineTotal,
		})
	}

	total := subtotal.Add(restaurant.DeliveryFee)

	// The minimum applies to the subtotal; the delivery fee does not
	// count towards it.
	if subtotal.LessThan(restaurant.MinimumOrder) {
		return nil, &domain.BelowMinimumOrderError{
			Subtotal:    subtotal,
			Minimum:     restaurant.MinimumOrder,
			DeliveryFee: restaurant.DeliveryFee,
		}
	}

	return &PricedOrder{
		Restaurant: restaurant,
		Items:      priced,
		Subtotal:   subtotal,
		Total:      total,
	}, nil
}
