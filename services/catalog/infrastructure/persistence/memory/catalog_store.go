// Package memory provides in-memory catalog repositories used by tests and
// local experiments. Semantics mirror the postgres implementations.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	catdomain "github.com/ghuser/fournil/services/catalog/domain"
	"github.com/ghuser/fournil/services/catalog/domain/models"
	"github.com/ghuser/fournil/services/catalog/domain/repositories"
)

// ProductStore is a mutex-guarded map-backed ProductRepository.
type ProductStore struct {
	mu       sync.Mutex
	products map[uuid.UUID]*models.Product
}

func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[uuid.UUID]*models.Product)}
}

func (s *ProductStore) Save(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *ProductStore) GetByID(_ context.Context, shopID, id uuid.UUID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || p.ShopID != shopID {
		return nil, catdomain.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *ProductStore) FindByShop(_ context.Context, shopID uuid.UUID, f repositories.ProductFilter) ([]*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Product
	for _, p := range s.products {
		if p.ShopID != shopID {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *ProductStore) Update(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.products[p.ID]
	if !ok || cur.ShopID != p.ShopID {
		return catdomain.ErrProductNotFound
	}
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *ProductStore) Delete(_ context.Context, shopID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || p.ShopID != shopID {
		return catdomain.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

// SaleStore is a mutex-guarded map-backed SaleRepository.
type SaleStore struct {
	mu    sync.Mutex
	sales map[uuid.UUID]*models.Sale
}

func NewSaleStore() *SaleStore {
	return &SaleStore{sales: make(map[uuid.UUID]*models.Sale)}
}

func copySale(s *models.Sale) *models.Sale {
	cp := *s
	cp.Items = append([]models.SaleItem(nil), s.Items...)
	return &cp
}

func (s *SaleStore) Save(_ context.Context, sale *models.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales[sale.ID] = copySale(sale)
	return nil
}

func (s *SaleStore) GetByID(_ context.Context, shopID, id uuid.UUID) (*models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale, ok := s.sales[id]
	if !ok || sale.ShopID != shopID {
		return nil, catdomain.ErrSaleNotFound
	}
	return copySale(sale), nil
}

func (s *SaleStore) FindByShop(_ context.Context, shopID uuid.UUID, from, to time.Time) ([]*models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Sale
	for _, sale := range s.sales {
		if sale.ShopID != shopID {
			continue
		}
		if sale.CreatedAt.Before(from) || !sale.CreatedAt.Before(to) {
			continue
		}
		out = append(out, copySale(sale))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *SaleStore) Summary(_ context.Context, shopID uuid.UUID, from, to time.Time) (*repositories.DailySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := &repositories.DailySummary{Date: from}
	for _, sale := range s.sales {
		if sale.ShopID != shopID || sale.CreatedAt.Before(from) || !sale.CreatedAt.Before(to) {
			continue
		}
		sum.SaleCount++
		sum.Subtotal += sale.Subtotal
		sum.VATAmount += sale.VATAmount
		sum.Total += sale.Total
		for _, it := range sale.Items {
			sum.ItemsSold += it.Quantity
		}
	}
	return sum, nil
}
