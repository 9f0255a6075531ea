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
	appsvcs "github.com/ghuser/fournil/services/identity/application/services"
	"github.com/ghuser/fournil/services/identity/domain/models"
)

// ShopRequest carries the full set of shop settings; PUT /shop replaces them.
type ShopRequest struct {
	Name           string  `json:"name" validate:"required,max=100"`
	Currency       string  `json:"currency" validate:"required,len=3"`
	DefaultVATRate float64 `json:"default_vat_rate" validate:"gte=0,lte=100"`
}

// ShopResponse is the JSON representation of a shop. The invite code is only
// shown to authenticated staff.
type ShopResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	InviteCode     string    `json:"invite_code"`
	Currency       string    `json:"currency"`
	DefaultVATRate float64   `json:"default_vat_rate"`
	CreatedAt      time.Time `json:"created_at"`
}

func toShopResponse(s *models.Shop) ShopResponse {
	return ShopResponse{
		ID:             s.ID,
		Name:           s.Name,
		InviteCode:     s.InviteCode,
		Currency:       s.Currency,
		DefaultVATRate: s.DefaultVATRate,
		CreatedAt:      s.CreatedAt,
	}
}

// ShopHandlers serves shop settings and team management.
type ShopHandlers struct {
	svc *appsvcs.Services
}

func NewShopHandlers(svc *appsvcs.Services) *ShopHandlers {
	return &ShopHandlers{svc: svc}
}

// Get handles GET /shop.
func (h *ShopHandlers) Get(w http.ResponseWriter, r *http.Request) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	shop, err := h.svc.Identity.GetShop(r.Context(), shopID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toShopResponse(shop))
}

// Update handles PUT /shop. Owner only.
func (h *ShopHandlers) Update(w http.ResponseWriter, r *http.Request) {
	shopID, userID, ok := shopAndUser(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[ShopRequest](w, r)
	if !ok {
		return
	}
	shop, err := h.svc.Identity.UpdateShop(r.Context(), shopID, userID, appsvcs.ShopInput{
		Name:           req.Name,
		Currency:       req.Currency,
		DefaultVATRate: req.DefaultVATRate,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toShopResponse(shop))
}

// RotateInviteCode handles POST /shop/rotate-invite. Owner only.
func (h *ShopHandlers) RotateInviteCode(w http.ResponseWriter, r *http.Request) {
	shopID, userID, ok := shopAndUser(w, r)
	if !ok {
		return
	}
	shop, err := h.svc.Identity.RotateInviteCode(r.Context(), shopID, userID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toShopResponse(shop))
}

// Team handles GET /team.
func (h *ShopHandlers) Team(w http.ResponseWriter, r *http.Request) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	users, err := h.svc.Identity.Team(r.Context(), shopID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	httpx.JSON(w, http.StatusOK, out)
}

// RemoveUser handles DELETE /team/{id}. Owner only.
func (h *ShopHandlers) RemoveUser(w http.ResponseWriter, r *http.Request) {
	shopID, userID, ok := shopAndUser(w, r)
	if !ok {
		return
	}
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.svc.Identity.RemoveUser(r.Context(), shopID, userID, targetID); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// shopAndUser pulls both IDs from the session context; endpoints needing an
// acting user reject legacy sessions without one.
func shopAndUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	userID, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "re-authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	return shopID, userID, true
}
