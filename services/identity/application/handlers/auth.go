package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/fournil/pkg/auth"
	"github.com/ghuser/fournil/pkg/errhttp"
	"github.com/ghuser/fournil/pkg/httpx"
	pkgvalidator "github.com/ghuser/fournil/pkg/validator"
	appsvcs "github.com/ghuser/fournil/services/identity/application/services"
	"github.com/ghuser/fournil/services/identity/domain/models"
)

// RegisterRequest creates a shop plus owner account.
type RegisterRequest struct {
	ShopName       string  `json:"shop_name" validate:"required,min=1,max=100"`
	Currency       string  `json:"currency" validate:"omitempty,len=3"`
	DefaultVATRate float64 `json:"default_vat_rate" validate:"gte=0,lte=100"`
	UserName       string  `json:"user_name" validate:"required,min=1,max=100"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=8"`
}

// JoinRequest enrolls a staff member via invite code.
type JoinRequest struct {
	InviteCode string `json:"invite_code" validate:"required,len=8"`
	UserName   string `json:"user_name" validate:"required,min=1,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the JSON representation of a staff account. The password
// hash never leaves the server.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	ShopID    uuid.UUID `json:"shop_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		ShopID:    u.ShopID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// AuthHandlers serves registration, login, and logout. It owns the session
// cookie lifecycle.
type AuthHandlers struct {
	svc   *appsvcs.Services
	store sessions.Store
}

func NewAuthHandlers(svc *appsvcs.Services, store sessions.Store) *AuthHandlers {
	return &AuthHandlers{svc: svc, store: store}
}

// Register handles POST /auth/register: create shop + owner and log in.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[RegisterRequest](w, r)
	if !ok {
		return
	}

	shop, owner, err := h.svc.Identity.Register(r.Context(), appsvcs.RegisterInput{
		ShopName:       req.ShopName,
		Currency:       req.Currency,
		DefaultVATRate: req.DefaultVATRate,
		UserName:       req.UserName,
		Email:          req.Email,
		Password:       req.Password,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if err := h.startSession(w, r, owner); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"shop": toShopResponse(shop),
		"user": toUserResponse(owner),
	})
}

// Join handles POST /auth/join: enroll via invite code and log in.
func (h *AuthHandlers) Join(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[JoinRequest](w, r)
	if !ok {
		return
	}

	shop, member, err := h.svc.Identity.Join(r.Context(), appsvcs.JoinInput{
		InviteCode: req.InviteCode,
		UserName:   req.UserName,
		Email:      req.Email,
		Password:   req.Password,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if err := h.startSession(w, r, member); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"shop": toShopResponse(shop),
		"user": toUserResponse(member),
	})
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[LoginRequest](w, r)
	if !ok {
		return
	}

	user, err := h.svc.Identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if err := h.startSession(w, r, user); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(user))
}

// Logout handles POST /auth/logout, expiring the session cookie.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, auth.SessionName)
	if err == nil {
		session.Options.MaxAge = -1
		_ = session.Save(r, w)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandlers) startSession(w http.ResponseWriter, r *http.Request, u *models.User) error {
	session, err := h.store.New(r, auth.SessionName)
	if err != nil {
		return err
	}
	session.Values[auth.SessionShopIDKey] = u.ShopID.String()
	session.Values[auth.SessionUserIDKey] = u.ID.String()
	return session.Save(r, w)
}
