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
	appsvcs "github.com/ghuser/fournil/services/inventory/application/services"
	"github.com/ghuser/fournil/services/inventory/domain/models"
	"github.com/ghuser/fournil/services/inventory/domain/repositories"
)

// IngredientRequest is the request body for creating or updating an ingredient.
// Quantities and cost are given in the display unit.
type IngredientRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Category    string  `json:"category" validate:"max=50"`
	DisplayUnit string  `json:"display_unit" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	CostPerUnit float64 `json:"cost_per_unit" validate:"gte=0"`
	MinStock    float64 `json:"min_stock" validate:"gte=0"`
	ExpiryDate  string  `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	Notes       string  `json:"notes"`
}

// DeductRequest is the request body for a manual stock deduction.
type DeductRequest struct {
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
	Unit     string  `json:"unit" validate:"required"`
}

// IngredientResponse is the JSON representation of an ingredient, including
// the derived stock fields.
type IngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	ShopID          uuid.UUID `json:"shop_id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	BaseUnit        string    `json:"base_unit"`
	QuantityOnHand  float64   `json:"quantity_on_hand"`
	CostPerBaseUnit float64   `json:"cost_per_base_unit"`
	MinStockLevel   float64   `json:"min_stock_level"`
	ExpiryDate      *string   `json:"expiry_date,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	StockStatus     string    `json:"stock_status"`
	StockValue      float64   `json:"stock_value"`
	DisplayQuantity string    `json:"display_quantity"`
	IsExpired       bool      `json:"is_expired"`
	CreatedAt       time.Time `json:"created_at"`
}

func toIngredientResponse(ing *models.Ingredient) IngredientResponse {
	resp := IngredientResponse{
		ID:              ing.ID,
		ShopID:          ing.ShopID,
		Name:            ing.Name,
		Category:        ing.Category,
		BaseUnit:        ing.BaseUnit,
		QuantityOnHand:  ing.QuantityOnHand,
		CostPerBaseUnit: ing.CostPerBaseUnit,
		MinStockLevel:   ing.MinStockLevel,
		Notes:           ing.Notes,
		StockStatus:     string(ing.StockStatus()),
		StockValue:      ing.StockValue(),
		DisplayQuantity: ing.DisplayQuantity(),
		IsExpired:       ing.IsExpired(time.Now().UTC()),
		CreatedAt:       ing.CreatedAt,
	}
	if ing.ExpiryDate != nil {
		d := ing.ExpiryDate.Format("2006-01-02")
		resp.ExpiryDate = &d
	}
	return resp
}

// IngredientHandlers serves the ingredient CRUD and ledger endpoints.
type IngredientHandlers struct {
	svc *appsvcs.Services
}

// NewIngredientHandlers returns handlers backed by the given services.
func NewIngredientHandlers(svc *appsvcs.Services) *IngredientHandlers {
	return &IngredientHandlers{svc: svc}
}

// List handles GET /ingredients with optional search, category, and status filters.
func (h *IngredientHandlers) List(w http.ResponseWriter, r *http.Request) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	f := repositories.Filter{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		Status:   models.StockStatus(r.URL.Query().Get("status")),
	}
	ings, err := h.svc.Ingredient.List(r.Context(), shopID, f)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	out := make([]IngredientResponse, len(ings))
	for i, ing := range ings {
		out[i] = toIngredientResponse(ing)
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Create handles POST /ingredients.
func (h *IngredientHandlers) Create(w http.ResponseWriter, r *http.Request) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	req, ok := pkgvalidator.ValidateRequest[IngredientRequest](w, r)
	if !ok {
		return
	}

	ing, err := h.svc.Ingredient.Create(r.Context(), shopID, toInput(req))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toIngredientResponse(ing))
}

// Get handles GET /ingredients/{id}.
func (h *IngredientHandlers) Get(w http.ResponseWriter, r *http.Request) {
	shopID, id, ok := shopAndID(w, r)
	if !ok {
		return
	}
	ing, err := h.svc.Ingredient.GetByID(r.Context(), shopID, id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toIngredientResponse(ing))
}

// Update handles PUT /ingredients/{id}.
func (h *IngredientHandlers) Update(w http.ResponseWriter, r *http.Request) {
	shopID, id, ok := shopAndID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[IngredientRequest](w, r)
	if !ok {
		return
	}
	ing, err := h.svc.Ingredient.Update(r.Context(), shopID, id, toInput(req))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toIngredientResponse(ing))
}

// Delete handles DELETE /ingredients/{id}.
func (h *IngredientHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	shopID, id, ok := shopAndID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Ingredient.Delete(r.Context(), shopID, id); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Deduct handles POST /ingredients/{id}/deduct.
func (h *IngredientHandlers) Deduct(w http.ResponseWriter, r *http.Request) {
	shopID, id, ok := shopAndID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[DeductRequest](w, r)
	if !ok {
		return
	}
	if err := h.svc.Ingredient.Deduct(r.Context(), shopID, id, req.Quantity, req.Unit); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	ing, err := h.svc.Ingredient.GetByID(r.Context(), shopID, id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toIngredientResponse(ing))
}

// LowStock handles GET /ingredients/low-stock.
func (h *IngredientHandlers) LowStock(w http.ResponseWriter, r *http.Request) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	ings, err := h.svc.Ingredient.LowStock(r.Context(), shopID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]IngredientResponse, len(ings))
	for i, ing := range ings {
		out[i] = toIngredientResponse(ing)
	}
	httpx.JSON(w, http.StatusOK, out)
}

func toInput(req *IngredientRequest) appsvcs.IngredientInput {
	in := appsvcs.IngredientInput{
		Name:        req.Name,
		Category:    req.Category,
		DisplayUnit: req.DisplayUnit,
		Quantity:    req.Quantity,
		CostPerUnit: req.CostPerUnit,
		MinStock:    req.MinStock,
		Notes:       req.Notes,
	}
	if req.ExpiryDate != "" {
		if d, err := time.Parse("2006-01-02", req.ExpiryDate); err == nil {
			in.ExpiryDate = &d
		}
	}
	return in
}

// shopAndID pulls the authenticated shop and the {id} route param, writing the
// error response itself when either is missing.
func shopAndID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, uuid.Nil, false
	}
	return shopID, id, true
}
