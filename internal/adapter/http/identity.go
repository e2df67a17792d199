package http

import (
	"fmt"
	"net/http"
	"strconv"
)

// Roles propagated by the API gateway. The gateway has already
// authenticated the caller; these headers are trusted as-is.
const (
	RoleCustomer        = "CUSTOMER"
	RoleRestaurantOwner = "RESTAURANT_OWNER"
)

const (
	headerUserID    = "X-User-Id"
	headerUserRole  = "X-User-Role"
	headerUserEmail = "X-User-Email"
	headerUserName  = "X-User-Name"
)

// Caller is the authenticated identity attached to a request.
type Caller struct {
	UserID int64
	Role   string
	Email  string
	Name   string
}

func callerFrom(r *http.Request) (Caller, error) {
	rawID := r.Header.Get(headerUserID)
	if rawID == "" {
		return Caller{}, fmt.Errorf("missing %s header", headerUserID)
	}
	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return Caller{}, fmt.Errorf("invalid %s header: %w", headerUserID, err)
	}

	return Caller{
		UserID: userID,
		Role:   r.Header.Get(headerUserRole),
		Email:  r.Header.Get(headerUserEmail),
		Name:   r.Header.Get(headerUserName),
	}, nil
}

// requireRole resolves the caller and enforces the required role,
// writing the error response itself when the check fails.
func (h *OrderHandler) requireRole(w http.ResponseWriter, r *http.Request, role string) (Caller, bool) {
	caller, err := callerFrom(r)
	if err != nil {
		h.respondError(w, "Authentication required", http.StatusUnauthorized)
		return Caller{}, false
	}
	if caller.Role != role {
		h.respondError(w, "Insufficient role", http.StatusForbidden)
		return Caller{}, false
	}
	return caller, true
}
