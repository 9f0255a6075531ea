package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/fournil/services/identity/domain/models"
)

// ShopRepository persists Shops.
type ShopRepository interface {
	Save(ctx context.Context, s *models.Shop) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	GetByInviteCode(ctx context.Context, code string) (*models.Shop, error)
	Update(ctx context.Context, s *models.Shop) error

	// Delete removes a shop. Used to undo a registration whose owner account
	// could not be created.
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository persists Users. Save returns ErrEmailTaken when the email
// is already registered, in any shop.
type UserRepository interface {
	Save(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	FindByShop(ctx context.Context, shopID uuid.UUID) ([]*models.User, error)
	Delete(ctx context.Context, shopID, id uuid.UUID) error
}
