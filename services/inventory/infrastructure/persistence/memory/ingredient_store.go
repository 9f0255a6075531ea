// Package memory provides an in-memory IngredientRepository used by tests and
// local experiments. Semantics mirror the postgres implementation, including
// tenant scoping and all-or-nothing deductions.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	invdomain "github.com/ghuser/fournil/services/inventory/domain"
	"github.com/ghuser/fournil/services/inventory/domain/models"
	"github.com/ghuser/fournil/services/inventory/domain/repositories"
	domainsvcs "github.com/ghuser/fournil/services/inventory/domain/services"
)

// IngredientStore is a mutex-guarded map-backed IngredientRepository.
type IngredientStore struct {
	mu          sync.Mutex
	ingredients map[uuid.UUID]*models.Ingredient
}

// NewIngredientStore returns an empty in-memory store.
func NewIngredientStore() *IngredientStore {
	return &IngredientStore{ingredients: make(map[uuid.UUID]*models.Ingredient)}
}

func (s *IngredientStore) Save(_ context.Context, ing *models.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *ing
	s.ingredients[ing.ID] = &cp
	return nil
}

func (s *IngredientStore) GetByID(_ context.Context, shopID, id uuid.UUID) (*models.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ing, ok := s.ingredients[id]
	if !ok || ing.ShopID != shopID {
		return nil, invdomain.ErrIngredientNotFound
	}
	cp := *ing
	return &cp, nil
}

func (s *IngredientStore) FindByShop(_ context.Context, shopID uuid.UUID, f repositories.Filter) ([]*models.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Ingredient
	for _, ing := range s.ingredients {
		if ing.ShopID != shopID {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(ing.Name), strings.ToLower(f.Search)) {
			continue
		}
		if f.Category != "" && ing.Category != f.Category {
			continue
		}
		if f.Status != "" && ing.StockStatus() != f.Status {
			continue
		}
		cp := *ing
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *IngredientStore) LowStock(_ context.Context, shopID uuid.UUID) ([]*models.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Ingredient
	for _, ing := range s.ingredients {
		if ing.ShopID == shopID && ing.QuantityOnHand <= ing.MinStockLevel {
			cp := *ing
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuantityOnHand < out[j].QuantityOnHand })
	return out, nil
}

func (s *IngredientStore) Update(_ context.Context, ing *models.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.ingredients[ing.ID]
	if !ok || cur.ShopID != ing.ShopID {
		return invdomain.ErrIngredientNotFound
	}
	cp := *ing
	s.ingredients[ing.ID] = &cp
	return nil
}

func (s *IngredientStore) Delete(_ context.Context, shopID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ing, ok := s.ingredients[id]
	if !ok || ing.ShopID != shopID {
		return invdomain.ErrIngredientNotFound
	}
	delete(s.ingredients, id)
	return nil
}

func (s *IngredientStore) DeductStock(_ context.Context, shopID, id uuid.UUID, qty float64, unit string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ing, ok := s.ingredients[id]
	if !ok || ing.ShopID != shopID {
		return invdomain.ErrIngredientNotFound
	}
	return domainsvcs.ApplyDeduction(ing, qty, unit)
}

func (s *IngredientStore) RestoreStock(_ context.Context, shopID, id uuid.UUID, qty float64, unit string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ing, ok := s.ingredients[id]
	if !ok || ing.ShopID != shopID {
		return invdomain.ErrIngredientNotFound
	}
	domainsvcs.Restock(ing, qty, unit)
	return nil
}

func (s *IngredientStore) StockValue(_ context.Context, shopID uuid.UUID) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, ing := range s.ingredients {
		if ing.ShopID == shopID {
			total += ing.StockValue()
		}
	}
	return total, nil
}
