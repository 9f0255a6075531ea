package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/fournil/pkg/auth"
	"github.com/ghuser/fournil/pkg/errhttp"
	"github.com/ghuser/fournil/pkg/httpx"
	pkgvalidator "github.com/ghuser/fournil/pkg/validator"
	appsvcs "github.com/ghuser/fournil/services/catalog/application/services"
	"github.com/ghuser/fournil/services/catalog/domain/models"
)

// CheckoutItemRequest is one line of a checkout payload.
type CheckoutItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// CheckoutRequest is the request body for a till transaction.
type CheckoutRequest struct {
	Items         []CheckoutItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string                `json:"payment_method" validate:"omitempty,oneof=cash card mobile"`
	CustomerName  string                `json:"customer_name" validate:"max=200"`
	Note          string                `json:"note" validate:"max=500"`
}

// SaleItemResponse mirrors a stored sale line.
type SaleItemResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	UnitPrice   float64   `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	VATRate     float64   `json:"vat_rate"`
	LineTotal   float64   `json:"line_total"`
}

// SaleResponse is the JSON representation of a sale.
type SaleResponse struct {
	ID            uuid.UUID          `json:"id"`
	ShopID        uuid.UUID          `json:"shop_id"`
	Items         []SaleItemResponse `json:"items"`
	Subtotal      float64            `json:"subtotal"`
	VATAmount     float64            `json:"vat_amount"`
	Total         float64            `json:"total"`
	PaymentMethod string             `json:"payment_method,omitempty"`
	CustomerName  string             `json:"customer_name,omitempty"`
	Note          string             `json:"note,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

func toSaleResponse(s *models.Sale) SaleResponse {
	resp := SaleResponse{
		ID:            s.ID,
		ShopID:        s.ShopID,
		Subtotal:      s.Subtotal,
		VATAmount:     s.VATAmount,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		CustomerName:  s.CustomerName,
		Note:          s.Note,
		CreatedAt:     s.CreatedAt,
		Items:         make([]SaleItemResponse, len(s.Items)),
	}
	for i, it := range s.Items {
		resp.Items[i] = SaleItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			VATRate:     it.VATRate,
			LineTotal:   it.LineTotal,
		}
	}
	return resp
}

// SaleHandlers serves the till endpoints.
type SaleHandlers struct {
	svc *appsvcs.Services
}

func NewSaleHandlers(svc *appsvcs.Services) *SaleHandlers {
	return &SaleHandlers{svc: svc}
}

// Checkout handles POST /sales/checkout.
func (h *SaleHandlers) Checkout(w http.ResponseWriter, r *http.Request) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	req, ok := pkgvalidator.ValidateRequest[CheckoutRequest](w, r)
	if !ok {
		return
	}

	in := appsvcs.CheckoutInput{PaymentMethod: req.PaymentMethod, CustomerName: req.CustomerName, Note: req.Note}
	for _, it := range req.Items {
		in.Items = append(in.Items, appsvcs.CheckoutItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	sale, err := h.svc.Catalog.Checkout(r.Context(), shopID, in)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toSaleResponse(sale))
}

// List handles GET /sales?date=YYYY-MM-DD, defaulting to today.
func (h *SaleHandlers) List(w http.ResponseWriter, r *http.Request) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	day, ok := dayParam(w, r)
	if !ok {
		return
	}

	sales, err := h.svc.Catalog.ListSales(r.Context(), shopID, day)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]SaleResponse, len(sales))
	for i, s := range sales {
		out[i] = toSaleResponse(s)
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Get handles GET /sales/{id}.
func (h *SaleHandlers) Get(w http.ResponseWriter, r *http.Request) {
	shopID, id, ok := shopAndID(w, r)
	if !ok {
		return
	}
	sale, err := h.svc.Catalog.GetSale(r.Context(), shopID, id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toSaleResponse(sale))
}

// Summary handles GET /sales/summary?date=YYYY-MM-DD, defaulting to today.
func (h *SaleHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	day, ok := dayParam(w, r)
	if !ok {
		return
	}

	sum, err := h.svc.Catalog.DailySummary(r.Context(), shopID, day)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sum)
}

func dayParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Now().UTC(), true
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}
