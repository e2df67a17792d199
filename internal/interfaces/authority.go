package interfaces

import (
	"context"

	"github.com/bytebites/orders/internal/domain"
)

// RestaurantAuthority resolves restaurant and menu truth from the
// external restaurant service. Implementations never return transport
// errors: a failed or circuit-broken call yields a degraded lookup
// with Success=false (closed restaurant / unavailable item), so the
// caller always receives a syntactically valid response.
type RestaurantAuthority interface {
	GetRestaurant(ctx context.Context, restaurantID int64) domain.RestaurantLookup
	GetMenuItem(ctx context.Context, restaurantID, menuItemID int64) domain.MenuItemLookup
}
