// Package memory provides in-memory identity repositories used by tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	iddomain "github.com/ghuser/fournil/services/identity/domain"
	"github.com/ghuser/fournil/services/identity/domain/models"
)

// ShopStore is a mutex-guarded map-backed ShopRepository.
type ShopStore struct {
	mu    sync.Mutex
	shops map[uuid.UUID]*models.Shop
}

func NewShopStore() *ShopStore {
	return &ShopStore{shops: make(map[uuid.UUID]*models.Shop)}
}

func (s *ShopStore) Save(_ context.Context, shop *models.Shop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *shop
	s.shops[shop.ID] = &cp
	return nil
}

func (s *ShopStore) GetByID(_ context.Context, id uuid.UUID) (*models.Shop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shop, ok := s.shops[id]
	if !ok {
		return nil, iddomain.ErrShopNotFound
	}
	cp := *shop
	return &cp, nil
}

func (s *ShopStore) GetByInviteCode(_ context.Context, code string) (*models.Shop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, shop := range s.shops {
		if shop.InviteCode == code {
			cp := *shop
			return &cp, nil
		}
	}
	return nil, iddomain.ErrInvalidInviteCode
}

func (s *ShopStore) Update(_ context.Context, shop *models.Shop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shops[shop.ID]; !ok {
		return iddomain.ErrShopNotFound
	}
	cp := *shop
	s.shops[shop.ID] = &cp
	return nil
}

func (s *ShopStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shops[id]; !ok {
		return iddomain.ErrShopNotFound
	}
	delete(s.shops, id)
	return nil
}

// UserStore is a mutex-guarded map-backed UserRepository enforcing global
// email uniqueness like the postgres unique index does.
type UserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uuid.UUID]*models.User)}
}

func (s *UserStore) Save(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return iddomain.ErrEmailTaken
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *UserStore) GetByID(_ context.Context, shopID, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.ShopID != shopID {
		return nil, iddomain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, iddomain.ErrUserNotFound
}

func (s *UserStore) FindByShop(_ context.Context, shopID uuid.UUID) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.User
	for _, u := range s.users {
		if u.ShopID == shopID {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *UserStore) Delete(_ context.Context, shopID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.ShopID != shopID {
		return iddomain.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}
