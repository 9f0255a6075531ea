package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/fournil/pkg/auth"
	"github.com/ghuser/fournil/pkg/errhttp"
	"github.com/ghuser/fournil/pkg/httpx"
	pkgvalidator "github.com/ghuser/fournil/pkg/validator"
	appsvcs "github.com/ghuser/fournil/services/waste/application/services"
	"github.com/ghuser/fournil/services/waste/domain/models"
	"github.com/ghuser/fournil/services/waste/domain/repositories"
)

// WasteRequest is the request body for logging waste. Exactly one of
// ingredient_id and product_id must be set.
type WasteRequest struct {
	IngredientID    *uuid.UUID `json:"ingredient_id"`
	ProductID       *uuid.UUID `json:"product_id"`
	Quantity        float64    `json:"quantity" validate:"required,gt=0"`
	Unit            string     `json:"unit"`
	Category        string     `json:"category" validate:"required,oneof=expired spoiled failed_batch unsold other"`
	Notes           string     `json:"notes" validate:"max=500"`
	CostEstimate    float64    `json:"cost_estimate" validate:"gte=0"`
	DeductFromStock bool       `json:"deduct_from_stock"`
}

// WasteResponse is the JSON representation of a waste entry.
type WasteResponse struct {
	ID           uuid.UUID  `json:"id"`
	ShopID       uuid.UUID  `json:"shop_id"`
	IngredientID *uuid.UUID `json:"ingredient_id,omitempty"`
	ProductID    *uuid.UUID `json:"product_id,omitempty"`
	ItemName     string     `json:"item_name"`
	Quantity     float64    `json:"quantity"`
	Unit         string     `json:"unit"`
	Category     string     `json:"category"`
	Cost         float64    `json:"cost"`
	Notes        string     `json:"notes,omitempty"`
	LoggedAt     time.Time  `json:"logged_at"`
}

func toWasteResponse(w *models.WasteLog) WasteResponse {
	return WasteResponse{
		ID:           w.ID,
		ShopID:       w.ShopID,
		IngredientID: w.IngredientID,
		ProductID:    w.ProductID,
		ItemName:     w.ItemName,
		Quantity:     w.Quantity,
		Unit:         w.Unit,
		Category:     string(w.Category),
		Cost:         w.Cost,
		Notes:        w.Notes,
		LoggedAt:     w.LoggedAt,
	}
}

// WasteHandlers serves the waste tracking endpoints.
type WasteHandlers struct {
	svc *appsvcs.Services
}

func NewWasteHandlers(svc *appsvcs.Services) *WasteHandlers {
	return &WasteHandlers{svc: svc}
}

// List handles GET /waste with optional category, from, and to filters.
func (h *WasteHandlers) List(w http.ResponseWriter, r *http.Request) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	f := repositories.Filter{Category: models.WasteCategory(r.URL.Query().Get("category"))}
	if raw := r.URL.Query().Get("from"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return
		}
		f.From = d
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
			return
		}
		f.To = d
	}

	logs, err := h.svc.Waste.List(r.Context(), shopID, f)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]WasteResponse, len(logs))
	for i, l := range logs {
		out[i] = toWasteResponse(l)
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Create handles POST /waste.
func (h *WasteHandlers) Create(w http.ResponseWriter, r *http.Request) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	req, ok := pkgvalidator.ValidateRequest[WasteRequest](w, r)
	if !ok {
		return
	}

	log, err := h.svc.Waste.Log(r.Context(), shopID, appsvcs.WasteInput{
		IngredientID:    req.IngredientID,
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		Unit:            req.Unit,
		Category:        models.WasteCategory(req.Category),
		Notes:           req.Notes,
		CostEstimate:    req.CostEstimate,
		DeductFromStock: req.DeductFromStock,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toWasteResponse(log))
}

// Delete handles DELETE /waste/{id}.
func (h *WasteHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.svc.Waste.Delete(r.Context(), shopID, id); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summary handles GET /waste/summary?from=&to=, defaulting to the last 30 days.
func (h *WasteHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)
	if raw := r.URL.Query().Get("from"); raw != "" {
		if d, err := time.Parse("2006-01-02", raw); err == nil {
			from = d
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if d, err := time.Parse("2006-01-02", raw); err == nil {
			to = d.AddDate(0, 0, 1)
		}
	}

	totals, err := h.svc.Waste.Summary(r.Context(), shopID, from, to)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if totals == nil {
		totals = []repositories.CategoryTotal{}
	}
	httpx.JSON(w, http.StatusOK, totals)
}
