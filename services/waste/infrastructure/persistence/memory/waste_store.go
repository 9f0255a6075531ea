// Package memory provides an in-memory WasteRepository used by tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	wastedomain "github.com/ghuser/fournil/services/waste/domain"
	"github.com/ghuser/fournil/services/waste/domain/models"
	"github.com/ghuser/fournil/services/waste/domain/repositories"
)

// WasteStore is a mutex-guarded map-backed WasteRepository.
type WasteStore struct {
	mu   sync.Mutex
	logs map[uuid.UUID]*models.WasteLog
}

func NewWasteStore() *WasteStore {
	return &WasteStore{logs: make(map[uuid.UUID]*models.WasteLog)}
}

func (s *WasteStore) Save(_ context.Context, w *models.WasteLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *w
	s.logs[w.ID] = &cp
	return nil
}

func (s *WasteStore) GetByID(_ context.Context, shopID, id uuid.UUID) (*models.WasteLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.logs[id]
	if !ok || w.ShopID != shopID {
		return nil, wastedomain.ErrWasteLogNotFound
	}
	cp := *w
	return &cp, nil
}

func (s *WasteStore) FindByShop(_ context.Context, shopID uuid.UUID, f repositories.Filter) ([]*models.WasteLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.WasteLog
	for _, w := range s.logs {
		if w.ShopID != shopID {
			continue
		}
		if f.Category != "" && w.Category != f.Category {
			continue
		}
		if !f.From.IsZero() && w.LoggedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !w.LoggedAt.Before(f.To) {
			continue
		}
		cp := *w
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LoggedAt.After(out[j].LoggedAt) })
	return out, nil
}

func (s *WasteStore) Delete(_ context.Context, shopID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.logs[id]
	if !ok || w.ShopID != shopID {
		return wastedomain.ErrWasteLogNotFound
	}
	delete(s.logs, id)
	return nil
}

func (s *WasteStore) CostByCategory(_ context.Context, shopID uuid.UUID, from, to time.Time) ([]repositories.CategoryTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byCat := make(map[models.WasteCategory]*repositories.CategoryTotal)
	for _, w := range s.logs {
		if w.ShopID != shopID || w.LoggedAt.Before(from) || !w.LoggedAt.Before(to) {
			continue
		}
		t, ok := byCat[w.Category]
		if !ok {
			t = &repositories.CategoryTotal{Category: w.Category}
			byCat[w.Category] = t
		}
		t.Count++
		t.Cost += w.Cost
	}
	var out []repositories.CategoryTotal
	for _, t := range byCat {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}
