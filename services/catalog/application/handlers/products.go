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
	appsvcs "github.com/ghuser/fournil/services/catalog/application/services"
	"github.com/ghuser/fournil/services/catalog/domain/models"
	"github.com/ghuser/fournil/services/catalog/domain/repositories"
)

// ProductRequest is the request body for creating or updating a product.
type ProductRequest struct {
	Name     string     `json:"name" validate:"required,min=1,max=100"`
	Category string     `json:"category" validate:"max=50"`
	Price    float64    `json:"price" validate:"gte=0"`
	VATRate  float64    `json:"vat_rate" validate:"gte=0,lte=100"`
	RecipeID *uuid.UUID `json:"recipe_id"`
	IsActive *bool      `json:"is_active"`
}

// ProductResponse is the JSON representation of a product.
type ProductResponse struct {
	ID           uuid.UUID  `json:"id"`
	ShopID       uuid.UUID  `json:"shop_id"`
	Name         string     `json:"name"`
	Category     string     `json:"category,omitempty"`
	Price        float64    `json:"price"`
	VATRate      float64    `json:"vat_rate"`
	PriceWithVAT float64    `json:"price_with_vat"`
	RecipeID     *uuid.UUID `json:"recipe_id,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		ShopID:       p.ShopID,
		Name:         p.Name,
		Category:     p.Category,
		Price:        p.Price,
		VATRate:      p.VATRate,
		PriceWithVAT: p.PriceWithVAT(),
		RecipeID:     p.RecipeID,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
	}
}

// ProductHandlers serves the product catalog endpoints.
type ProductHandlers struct {
	svc *appsvcs.Services
}

func NewProductHandlers(svc *appsvcs.Services) *ProductHandlers {
	return &ProductHandlers{svc: svc}
}

// List handles GET /products with optional search, category, and active filters.
func (h *ProductHandlers) List(w http.ResponseWriter, r *http.Request) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	f := repositories.ProductFilter{
		Search:     r.URL.Query().Get("search"),
		Category:   r.URL.Query().Get("category"),
		ActiveOnly: r.URL.Query().Get("active") == "true",
	}
	ps, err := h.svc.Catalog.ListProducts(r.Context(), shopID, f)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]ProductResponse, len(ps))
	for i, p := range ps {
		out[i] = toProductResponse(p)
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Create handles POST /products.
func (h *ProductHandlers) Create(w http.ResponseWriter, r *http.Request) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	req, ok := pkgvalidator.ValidateRequest[ProductRequest](w, r)
	if !ok {
		return
	}
	p, err := h.svc.Catalog.CreateProduct(r.Context(), shopID, toProductInput(req))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toProductResponse(p))
}

// Get handles GET /products/{id}.
func (h *ProductHandlers) Get(w http.ResponseWriter, r *http.Request) {
	shopID, id, ok := shopAndID(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Catalog.GetProduct(r.Context(), shopID, id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProductResponse(p))
}

// Update handles PUT /products/{id}.
func (h *ProductHandlers) Update(w http.ResponseWriter, r *http.Request) {
	shopID, id, ok := shopAndID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[ProductRequest](w, r)
	if !ok {
		return
	}
	p, err := h.svc.Catalog.UpdateProduct(r.Context(), shopID, id, toProductInput(req))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProductResponse(p))
}

// Delete handles DELETE /products/{id}.
func (h *ProductHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	shopID, id, ok := shopAndID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Catalog.DeleteProduct(r.Context(), shopID, id); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toProductInput(req *ProductRequest) appsvcs.ProductInput {
	in := appsvcs.ProductInput{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		VATRate:  req.VATRate,
		RecipeID: req.RecipeID,
		IsActive: true,
	}
	if req.IsActive != nil {
		in.IsActive = *req.IsActive
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
