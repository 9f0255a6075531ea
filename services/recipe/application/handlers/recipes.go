package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/fournil/pkg/auth"
	"github.com/ghuser/fournil/pkg/errhttp"
	"github.com/ghuser/fournil/pkg/httpx"
	pkgvalidator "github.com/ghuser/fournil/pkg/validator"
	appsvcs "github.com/ghuser/fournil/services/recipe/application/services"
	"github.com/ghuser/fournil/services/recipe/domain/models"
	"github.com/ghuser/fournil/services/recipe/domain/repositories"
	costing "github.com/ghuser/fournil/services/recipe/domain/services"
)

// LineRequest is one ingredient requirement in a recipe payload.
type LineRequest struct {
	IngredientID uuid.UUID `json:"ingredient_id" validate:"required"`
	Quantity     float64   `json:"quantity" validate:"required,gt=0"`
	Unit         string    `json:"unit" validate:"required"`
}

// RecipeRequest is the request body for creating or updating a recipe.
type RecipeRequest struct {
	Name             string        `json:"name" validate:"required,min=1,max=100"`
	Description      string        `json:"description" validate:"max=1000"`
	YieldQuantity    float64       `json:"yield_quantity" validate:"gte=0"`
	YieldUnit        string        `json:"yield_unit"`
	EstimatedMinutes int           `json:"estimated_minutes" validate:"gte=0"`
	IsActive         *bool         `json:"is_active"`
	Lines            []LineRequest `json:"lines" validate:"dive"`
}

// LineResponse mirrors a stored recipe line.
type LineResponse struct {
	ID           uuid.UUID `json:"id"`
	IngredientID uuid.UUID `json:"ingredient_id"`
	Quantity     float64   `json:"quantity"`
	Unit         string    `json:"unit"`
}

// RecipeResponse is the JSON representation of a recipe.
type RecipeResponse struct {
	ID               uuid.UUID      `json:"id"`
	ShopID           uuid.UUID      `json:"shop_id"`
	Name             string         `json:"name"`
	Description      string         `json:"description,omitempty"`
	YieldQuantity    float64        `json:"yield_quantity"`
	YieldUnit        string         `json:"yield_unit"`
	EstimatedMinutes int            `json:"estimated_minutes"`
	IsActive         bool           `json:"is_active"`
	Lines            []LineResponse `json:"lines"`
	CreatedAt        time.Time      `json:"created_at"`
}

func toRecipeResponse(rec *models.Recipe) RecipeResponse {
	resp := RecipeResponse{
		ID:               rec.ID,
		ShopID:           rec.ShopID,
		Name:             rec.Name,
		Description:      rec.Description,
		YieldQuantity:    rec.YieldQuantity,
		YieldUnit:        rec.YieldUnit,
		EstimatedMinutes: int(rec.EstimatedTime.Minutes()),
		IsActive:         rec.IsActive,
		Lines:            make([]LineResponse, len(rec.Lines)),
		CreatedAt:        rec.CreatedAt,
	}
	for i, l := range rec.Lines {
		resp.Lines[i] = LineResponse{ID: l.ID, IngredientID: l.IngredientID, Quantity: l.Quantity, Unit: l.Unit}
	}
	return resp
}

// RecipeHandlers serves the recipe CRUD, costing, and stock-check endpoints.
type RecipeHandlers struct {
	svc *appsvcs.Services
}

func NewRecipeHandlers(svc *appsvcs.Services) *RecipeHandlers {
	return &RecipeHandlers{svc: svc}
}

// List handles GET /recipes with optional search and active filters.
func (h *RecipeHandlers) List(w http.ResponseWriter, r *http.Request) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	f := repositories.Filter{
		Search:     r.URL.Query().Get("search"),
		ActiveOnly: r.URL.Query().Get("active") == "true",
	}
	recs, err := h.svc.Recipe.List(r.Context(), shopID, f)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	out := make([]RecipeResponse, len(recs))
	for i, rec := range recs {
		out[i] = toRecipeResponse(rec)
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Create handles POST /recipes.
func (h *RecipeHandlers) Create(w http.ResponseWriter, r *http.Request) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	req, ok := pkgvalidator.ValidateRequest[RecipeRequest](w, r)
	if !ok {
		return
	}
	rec, err := h.svc.Recipe.Create(r.Context(), shopID, toInput(req))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toRecipeResponse(rec))
}

// Get handles GET /recipes/{id}.
func (h *RecipeHandlers) Get(w http.ResponseWriter, r *http.Request) {
	shopID, id, ok := shopAndID(w, r)
	if !ok {
		return
	}
	rec, err := h.svc.Recipe.GetByID(r.Context(), shopID, id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRecipeResponse(rec))
}

// Update handles PUT /recipes/{id}, replacing the full line set.
func (h *RecipeHandlers) Update(w http.ResponseWriter, r *http.Request) {
	shopID, id, ok := shopAndID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[RecipeRequest](w, r)
	if !ok {
		return
	}
	rec, err := h.svc.Recipe.Update(r.Context(), shopID, id, toInput(req))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRecipeResponse(rec))
}

// Delete handles DELETE /recipes/{id}.
func (h *RecipeHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	shopID, id, ok := shopAndID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Recipe.Delete(r.Context(), shopID, id); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Cost handles GET /recipes/{id}/cost with the per-line breakdown.
func (h *RecipeHandlers) Cost(w http.ResponseWriter, r *http.Request) {
	shopID, id, ok := shopAndID(w, r)
	if !ok {
		return
	}
	c, err := h.svc.Recipe.Cost(r.Context(), shopID, id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

// CheckStock handles GET /recipes/{id}/check-stock?multiplier=N.
func (h *RecipeHandlers) CheckStock(w http.ResponseWriter, r *http.Request) {
	shopID, id, ok := shopAndID(w, r)
	if !ok {
		return
	}
	multiplier := 1.0
	if raw := r.URL.Query().Get("multiplier"); raw != "" {
		m, err := strconv.ParseFloat(raw, 64)
		if err != nil || m <= 0 {
			httpx.JSONError(w, http.StatusBadRequest, "multiplier must be a positive number")
			return
		}
		multiplier = m
	}

	shortages, err := h.svc.Recipe.CheckStock(r.Context(), shopID, id, multiplier)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if shortages == nil {
		shortages = []costing.Shortage{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"can_produce": len(shortages) == 0,
		"shortages":   shortages,
	})
}

func toInput(req *RecipeRequest) appsvcs.RecipeInput {
	in := appsvcs.RecipeInput{
		Name:             req.Name,
		Description:      req.Description,
		YieldQuantity:    req.YieldQuantity,
		YieldUnit:        req.YieldUnit,
		EstimatedMinutes: req.EstimatedMinutes,
		IsActive:         true,
	}
	if req.IsActive != nil {
		in.IsActive = *req.IsActive
	}
	for _, l := range req.Lines {
		in.Lines = append(in.Lines, appsvcs.LineInput{
			IngredientID: l.IngredientID,
			Quantity:     l.Quantity,
			Unit:         l.Unit,
		})
	}
	return in
}

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
