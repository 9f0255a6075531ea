// Package memory provides an in-memory RecipeRepository used by tests and
// local experiments. Semantics mirror the postgres implementation.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	recdomain "github.com/ghuser/fournil/services/recipe/domain"
	"github.com/ghuser/fournil/services/recipe/domain/models"
	"github.com/ghuser/fournil/services/recipe/domain/repositories"
)

// RecipeStore is a mutex-guarded map-backed RecipeRepository.
type RecipeStore struct {
	mu      sync.Mutex
	recipes map[uuid.UUID]*models.Recipe
}

// NewRecipeStore returns an empty in-memory store.
func NewRecipeStore() *RecipeStore {
	return &RecipeStore{recipes: make(map[uuid.UUID]*models.Recipe)}
}

func copyRecipe(r *models.Recipe) *models.Recipe {
	cp := *r
	cp.Lines = append([]models.Line(nil), r.Lines...)
	return &cp
}

func (s *RecipeStore) Save(_ context.Context, r *models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[r.ID] = copyRecipe(r)
	return nil
}

func (s *RecipeStore) GetByID(_ context.Context, shopID, id uuid.UUID) (*models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[id]
	if !ok || r.ShopID != shopID {
		return nil, recdomain.ErrRecipeNotFound
	}
	return copyRecipe(r), nil
}

func (s *RecipeStore) FindByShop(_ context.Context, shopID uuid.UUID, f repositories.Filter) ([]*models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Recipe
	for _, r := range s.recipes {
		if r.ShopID != shopID {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(f.Search)) {
			continue
		}
		if f.ActiveOnly && !r.IsActive {
			continue
		}
		out = append(out, copyRecipe(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *RecipeStore) Update(_ context.Context, r *models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.recipes[r.ID]
	if !ok || cur.ShopID != r.ShopID {
		return recdomain.ErrRecipeNotFound
	}
	s.recipes[r.ID] = copyRecipe(r)
	return nil
}

func (s *RecipeStore) Delete(_ context.Context, shopID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[id]
	if !ok || r.ShopID != shopID {
		return recdomain.ErrRecipeNotFound
	}
	delete(s.recipes, id)
	return nil
}
