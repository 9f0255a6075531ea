package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/fournil/pkg/app"
	"github.com/ghuser/fournil/services/waste/application/handlers"
	appsvcs "github.com/ghuser/fournil/services/waste/application/services"
)

// WasteRoutes registers waste tracking endpoints on the provided chi router.
func WasteRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	h := handlers.NewWasteHandlers(svcs)
	r.Route("/waste", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/summary", h.Summary)
		r.Delete("/{id}", h.Delete)
	})
}
