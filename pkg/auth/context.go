package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const (
	shopIDKey contextKey = "shop_id"
	userIDKey contextKey = "user_id"
)

// ErrShopIDNotFound is returned when no shop ID exists in the request context.
// Handlers should return 401 when this error occurs.
var ErrShopIDNotFound = errors.New("shop_id not found in context")

// ErrUserIDNotFound is returned when no user ID exists in the request context.
var ErrUserIDNotFound = errors.New("user_id not found in context")

// ShopIDFromCtx extracts the authenticated shop (tenant) ID from the request
// context. Returns uuid.Nil and ErrShopIDNotFound if no shop ID is set
// (unauthenticated request). Every tenant-scoped handler starts here; there is
// no ambient current-shop state anywhere else.
func ShopIDFromCtx(ctx context.Context) (uuid.UUID, error) {
	shopID, ok := ctx.Value(shopIDKey).(uuid.UUID)
	if !ok || shopID == uuid.Nil {
		return uuid.Nil, ErrShopIDNotFound
	}
	return shopID, nil
}

// UserIDFromCtx extracts the authenticated user ID from the request context.
func UserIDFromCtx(ctx context.Context) (uuid.UUID, error) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, ErrUserIDNotFound
	}
	return userID, nil
}

// WithShopID returns a new context with the given shop ID attached.
// Used by authentication middleware after validating the session.
func WithShopID(ctx context.Context, shopID uuid.UUID) context.Context {
	return context.WithValue(ctx, shopIDKey, shopID)
}

// WithUserID returns a new context with the given user ID attached.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
