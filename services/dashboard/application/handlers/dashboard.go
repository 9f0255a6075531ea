package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ghuser/fournil/pkg/auth"
	"github.com/ghuser/fournil/pkg/errhttp"
	"github.com/ghuser/fournil/pkg/httpx"
	appsvcs "github.com/ghuser/fournil/services/dashboard/application/services"
)

// LowStockItem is one ingredient running at or below its minimum level.
type LowStockItem struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Quantity string    `json:"quantity"`
	MinStock string    `json:"min_stock"`
}

// RunSummary is a completed production run shown on the dashboard.
type RunSummary struct {
	ID         uuid.UUID `json:"id"`
	RecipeName string    `json:"recipe_name"`
	Quantity   float64   `json:"quantity"`
	ActualCost float64   `json:"actual_cost"`
}

// OverviewResponse is the dashboard payload.
type OverviewResponse struct {
	StockValue      float64        `json:"stock_value"`
	LowStock        []LowStockItem `json:"low_stock"`
	TodaySaleCount  int            `json:"today_sale_count"`
	TodaySalesTotal float64        `json:"today_sales_total"`
	TodayProduction []RunSummary   `json:"today_production"`
	WasteCost30d    float64        `json:"waste_cost_30d"`
}

// DashboardHandlers serves the aggregate overview endpoint.
type DashboardHandlers struct {
	svc *appsvcs.Services
}

func NewDashboardHandlers(svc *appsvcs.Services) *DashboardHandlers {
	return &DashboardHandlers{svc: svc}
}

// Overview handles GET /dashboard.
func (h *DashboardHandlers) Overview(w http.ResponseWriter, r *http.Request) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ov, err := h.svc.Dashboard.Overview(r.Context(), shopID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	resp := OverviewResponse{
		StockValue:   ov.StockValue,
		LowStock:     make([]LowStockItem, len(ov.LowStock)),
		WasteCost30d: ov.WasteCost30d,
	}
	for i, ing := range ov.LowStock {
		resp.LowStock[i] = LowStockItem{
			ID:       ing.ID,
			Name:     ing.Name,
			Quantity: ing.DisplayQuantity(),
			MinStock: ing.DisplayMinStock(),
		}
	}
	if ov.TodaySales != nil {
		resp.TodaySaleCount = ov.TodaySales.SaleCount
		resp.TodaySalesTotal = ov.TodaySales.Total
	}
	resp.TodayProduction = make([]RunSummary, len(ov.TodayProduction))
	for i, run := range ov.TodayProduction {
		resp.TodayProduction[i] = RunSummary{
			ID:         run.ID,
			RecipeName: run.RecipeName,
			Quantity:   run.Quantity,
			ActualCost: run.ActualCost,
		}
	}
	httpx.JSON(w, http.StatusOK, resp)
}
