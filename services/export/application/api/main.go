package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/fournil/pkg/app"
	"github.com/ghuser/fournil/services/export/application/handlers"
	appsvcs "github.com/ghuser/fournil/services/export/application/services"
)

// ExportRoutes registers the data export endpoints on the provided chi router.
func ExportRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	h := handlers.NewExportHandlers(svcs)
	r.Get("/export/{entity}", h.Download)
}
