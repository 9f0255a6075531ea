package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	catrepos "github.com/ghuser/fournil/services/catalog/domain/repositories"
	invmodels "github.com/ghuser/fournil/services/inventory/domain/models"
	invrepos "github.com/ghuser/fournil/services/inventory/domain/repositories"
	prodmodels "github.com/ghuser/fournil/services/production/domain/models"
	prodrepos "github.com/ghuser/fournil/services/production/domain/repositories"
	wasterepos "github.com/ghuser/fournil/services/waste/domain/repositories"
)

// Overview is the aggregate read model behind the shop's landing page.
type Overview struct {
	StockValue      float64
	LowStock        []*invmodels.Ingredient
	TodaySales      *catrepos.DailySummary
	TodayProduction []*prodmodels.ProductionRun
	WasteCost30d    float64
}

// DashboardService composes read operations from the other contexts into a
// single overview. It writes nothing.
type DashboardService struct {
	ingredients invrepos.IngredientRepository
	runs        prodrepos.RunRepository
	sales       catrepos.SaleRepository
	waste       wasterepos.WasteRepository
}

func NewDashboardService(
	ingredients invrepos.IngredientRepository,
	runs prodrepos.RunRepository,
	sales catrepos.SaleRepository,
	waste wasterepos.WasteRepository,
) *DashboardService {
	return &DashboardService{
		ingredients: ingredients,
		runs:        runs,
		sales:       sales,
		waste:       waste,
	}
}

// Overview assembles the dashboard for one shop. "Today" is the UTC calendar
// day; the waste figure covers the trailing 30 days.
func (s *DashboardService) Overview(ctx context.Context, shopID uuid.UUID) (*Overview, error) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	value, err := s.ingredients.StockValue(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("dashboard stock value: %w", err)
	}

	low, err := s.ingredients.LowStock(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("dashboard low stock: %w", err)
	}

	salesSummary, err := s.sales.Summary(ctx, shopID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("dashboard sales summary: %w", err)
	}

	completed, err := s.runs.CompletedBetween(ctx, shopID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("dashboard production: %w", err)
	}

	wasteTotals, err := s.waste.CostByCategory(ctx, shopID, now.AddDate(0, 0, -30), now)
	if err != nil {
		return nil, fmt.Errorf("dashboard waste: %w", err)
	}
	var wasteCost float64
	for _, ct := range wasteTotals {
		wasteCost += ct.Cost
	}

	return &Overview{
		StockValue:      value,
		LowStock:        low,
		TodaySales:      salesSummary,
		TodayProduction: completed,
		WasteCost30d:    wasteCost,
	}, nil
}
