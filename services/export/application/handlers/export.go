package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/fournil/pkg/auth"
	"github.com/ghuser/fournil/pkg/errhttp"
	"github.com/ghuser/fournil/pkg/httpx"
	appsvcs "github.com/ghuser/fournil/services/export/application/services"
)

// ExportHandlers serves the data export endpoints.
type ExportHandlers struct {
	svc *appsvcs.Services
}

func NewExportHandlers(svc *appsvcs.Services) *ExportHandlers {
	return &ExportHandlers{svc: svc}
}

// Download handles GET /export/{entity}?format=csv|json|xlsx and streams the
// dataset as a file attachment. The format defaults to CSV.
func (h *ExportHandlers) Download(w http.ResponseWriter, r *http.Request) {
	shopID, err := auth.ShopIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = appsvcs.FormatCSV
	}
	contentType, ok := appsvcs.ContentType(format)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "format must be csv, json, or xlsx")
		return
	}

	ds, err := h.svc.Export.Build(r.Context(), shopID, chi.URLParam(r, "entity"))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	filename := fmt.Sprintf("%s-%s.%s", ds.Entity, time.Now().UTC().Format("2006-01-02"), format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := appsvcs.Encode(w, ds, format); err != nil {
		// headers are already committed, nothing more we can tell the client
		return
	}
}
