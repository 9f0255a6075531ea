package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	iddomain "github.com/ghuser/fournil/services/identity/domain"
	"github.com/ghuser/fournil/services/identity/domain/models"
	"github.com/ghuser/fournil/services/identity/domain/repositories"
)

// RegisterInput creates a shop and its owner account in one step.
type RegisterInput struct {
	ShopName       string
	Currency       string
	DefaultVATRate float64
	UserName       string
	Email          string
	Password       string
}

// JoinInput enrolls a staff member via the shop's invite code.
type JoinInput struct {
	InviteCode string
	UserName   string
	Email      string
	Password   string
}

// ShopInput carries shop settings edits.
type ShopInput struct {
	Name           string
	Currency       string
	DefaultVATRate float64
}

// IdentityService manages shops, staff accounts, and credentials.
type IdentityService struct {
	shops repositories.ShopRepository
	users repositories.UserRepository
}

func NewIdentityService(shops repositories.ShopRepository, users repositories.UserRepository) *IdentityService {
	return &IdentityService{shops: shops, users: users}
}

// Register creates a shop and its owner. The owner is logged in immediately.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*models.Shop, *models.User, error) {
	shop, err := models.NewShop(in.ShopName, in.Currency, in.DefaultVATRate)
	if err != nil {
		return nil, nil, fmt.Errorf("new shop: %w", err)
	}
	owner, err := models.NewUser(shop.ID, in.Email, in.UserName, in.Password, models.RoleOwner)
	if err != nil {
		return nil, nil, fmt.Errorf("new user: %w", err)
	}

	if err := s.shops.Save(ctx, shop); err != nil {
		return nil, nil, fmt.Errorf("save shop: %w", err)
	}
	if err := s.users.Save(ctx, owner); err != nil {
		// A shop without an owner is unreachable, so take it back out.
		if delErr := s.shops.Delete(ctx, shop.ID); delErr != nil {
			return nil, nil, fmt.Errorf("save user: %w (removing shop: %v)", err, delErr)
		}
		return nil, nil, fmt.Errorf("save user: %w", err)
	}
	return shop, owner, nil
}

// Join enrolls a new member into the shop matching the invite code.
func (s *IdentityService) Join(ctx context.Context, in JoinInput) (*models.Shop, *models.User, error) {
	shop, err := s.shops.GetByInviteCode(ctx, in.InviteCode)
	if err != nil {
		return nil, nil, err
	}
	member, err := models.NewUser(shop.ID, in.Email, in.UserName, in.Password, models.RoleMember)
	if err != nil {
		return nil, nil, fmt.Errorf("new user: %w", err)
	}
	if err := s.users.Save(ctx, member); err != nil {
		return nil, nil, fmt.Errorf("save user: %w", err)
	}
	return shop, member, nil
}

// Login verifies credentials and returns the account. A missing account and a
// wrong password are indistinguishable to the caller.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, iddomain.ErrUserNotFound) {
			return nil, iddomain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !u.CheckPassword(password) {
		return nil, iddomain.ErrInvalidCredentials
	}
	return u, nil
}

// GetShop loads the tenant.
func (s *IdentityService) GetShop(ctx context.Context, shopID uuid.UUID) (*models.Shop, error) {
	shop, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("get shop: %w", err)
	}
	return shop, nil
}

// UpdateShop replaces the shop's settings. Owner only. All fields are
// applied, so a 0% VAT rate sticks; invalid settings fail with ErrInvalidShop.
func (s *IdentityService) UpdateShop(ctx context.Context, shopID, actorID uuid.UUID, in ShopInput) (*models.Shop, error) {
	if err := s.requireOwner(ctx, shopID, actorID); err != nil {
		return nil, err
	}
	shop, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("get shop: %w", err)
	}
	if err := shop.UpdateSettings(in.Name, in.Currency, in.DefaultVATRate); err != nil {
		return nil, fmt.Errorf("%w: %w", iddomain.ErrInvalidShop, err)
	}
	if err := s.shops.Update(ctx, shop); err != nil {
		return nil, fmt.Errorf("update shop: %w", err)
	}
	return shop, nil
}

// RotateInviteCode replaces the shop's invite code. Owner only.
func (s *IdentityService) RotateInviteCode(ctx context.Context, shopID, actorID uuid.UUID) (*models.Shop, error) {
	if err := s.requireOwner(ctx, shopID, actorID); err != nil {
		return nil, err
	}
	shop, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("get shop: %w", err)
	}
	shop.RotateInviteCode()
	if err := s.shops.Update(ctx, shop); err != nil {
		return nil, fmt.Errorf("update shop: %w", err)
	}
	return shop, nil
}

// Team lists the shop's staff.
func (s *IdentityService) Team(ctx context.Context, shopID uuid.UUID) ([]*models.User, error) {
	users, err := s.users.FindByShop(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// RemoveUser removes a member. Owner only, and the owner cannot be removed.
func (s *IdentityService) RemoveUser(ctx context.Context, shopID, actorID, targetID uuid.UUID) error {
	if err := s.requireOwner(ctx, shopID, actorID); err != nil {
		return err
	}
	target, err := s.users.GetByID(ctx, shopID, targetID)
	if err != nil {
		return err
	}
	if target.IsOwner() {
		return iddomain.ErrOwnerRemoval
	}
	return s.users.Delete(ctx, shopID, targetID)
}

func (s *IdentityService) requireOwner(ctx context.Context, shopID, actorID uuid.UUID) error {
	actor, err := s.users.GetByID(ctx, shopID, actorID)
	if err != nil {
		return err
	}
	if !actor.IsOwner() {
		return iddomain.ErrNotOwner
	}
	return nil
}
