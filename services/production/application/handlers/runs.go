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
	appsvcs "github.com/ghuser/fournil/services/production/application/services"
	"github.com/ghuser/fournil/services/production/domain/models"
	"github.com/ghuser/fournil/services/production/domain/repositories"
)

// RunRequest is the request body for creating or updating a production run.
type RunRequest struct {
	RecipeID     uuid.UUID `json:"recipe_id" validate:"required"`
	Quantity     float64   `json:"quantity" validate:"required,gt=0"`
	Notes        string    `json:"notes" validate:"max=1000"`
	ScheduledFor string    `json:"scheduled_for" validate:"omitempty,datetime=2006-01-02"`
}

// RunResponse is the JSON representation of a production run.
type RunResponse struct {
	ID           uuid.UUID  `json:"id"`
	ShopID       uuid.UUID  `json:"shop_id"`
	RecipeID     uuid.UUID  `json:"recipe_id"`
	RecipeName   string     `json:"recipe_name"`
	Quantity     float64    `json:"quantity"`
	Status       string     `json:"status"`
	PlannedCost  float64    `json:"planned_cost"`
	ActualCost   float64    `json:"actual_cost"`
	Notes        string     `json:"notes,omitempty"`
	ScheduledFor *string    `json:"scheduled_for,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toRunResponse(run *models.ProductionRun) RunResponse {
	resp := RunResponse{
		ID:          run.ID,
		ShopID:      run.ShopID,
		RecipeID:    run.RecipeID,
		RecipeName:  run.RecipeName,
		Quantity:    run.Quantity,
		Status:      string(run.Status),
		PlannedCost: run.PlannedCost,
		ActualCost:  run.ActualCost,
		Notes:       run.Notes,
		CompletedAt: run.CompletedAt,
		CreatedAt:   run.CreatedAt,
	}
	if run.ScheduledFor != nil {
		d := run.ScheduledFor.Format("2006-01-02")
		resp.ScheduledFor = &d
	}
	return resp
}

// RunHandlers serves the production run endpoints.
type RunHandlers struct {
	svc *appsvcs.Services
}

func NewRunHandlers(svc *appsvcs.Services) *RunHandlers {
	return &RunHandlers{svc: svc}
}

// List handles GET /production-runs with optional status and recipe filters.
func (h *RunHandlers) List(w http.ResponseWriter, r *http.Request) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	f := repositories.Filter{Status: models.RunStatus(r.URL.Query().Get("status"))}
	if raw := r.URL.Query().Get("recipe_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid recipe_id")
			return
		}
		f.RecipeID = id
	}

	runs, err := h.svc.Run.List(r.Context(), shopID, f)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]RunResponse, len(runs))
	for i, run := range runs {
		out[i] = toRunResponse(run)
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Create handles POST /production-runs.
func (h *RunHandlers) Create(w http.ResponseWriter, r *http.Request) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	req, ok := pkgvalidator.ValidateRequest[RunRequest](w, r)
	if !ok {
		return
	}
	run, err := h.svc.Run.Create(r.Context(), shopID, toInput(req))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toRunResponse(run))
}

// Get handles GET /production-runs/{id}.
func (h *RunHandlers) Get(w http.ResponseWriter, r *http.Request) {
	shopID, id, ok := shopAndID(w, r)
	if !ok {
		return
	}
	run, err := h.svc.Run.GetByID(r.Context(), shopID, id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRunResponse(run))
}

// Update handles PUT /production-runs/{id} for planned runs.
func (h *RunHandlers) Update(w http.ResponseWriter, r *http.Request) {
	shopID, id, ok := shopAndID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[RunRequest](w, r)
	if !ok {
		return
	}
	run, err := h.svc.Run.Update(r.Context(), shopID, id, toInput(req))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRunResponse(run))
}

// Delete handles DELETE /production-runs/{id} for planned runs.
func (h *RunHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	shopID, id, ok := shopAndID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Run.Delete(r.Context(), shopID, id); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Complete handles POST /production-runs/{id}/complete.
func (h *RunHandlers) Complete(w http.ResponseWriter, r *http.Request) {
	shopID, id, ok := shopAndID(w, r)
	if !ok {
		return
	}
	run, err := h.svc.Run.Complete(r.Context(), shopID, id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRunResponse(run))
}

func toInput(req *RunRequest) appsvcs.RunInput {
	in := appsvcs.RunInput{
		RecipeID: req.RecipeID,
		Quantity: req.Quantity,
		Notes:    req.Notes,
	}
	if req.ScheduledFor != "" {
		if d, err := time.Parse("2006-01-02", req.ScheduledFor); err == nil {
			in.ScheduledFor = &d
		}
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
