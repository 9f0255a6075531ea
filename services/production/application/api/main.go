package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/fournil/pkg/app"
	"github.com/ghuser/fournil/services/production/application/handlers"
	appsvcs "github.com/ghuser/fournil/services/production/application/services"
)

// ProductionRoutes registers production run endpoints on the provided chi router.
func ProductionRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	h := handlers.NewRunHandlers(svcs)
	r.Route("/production-runs", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Post("/complete", h.Complete)
		})
	})
}
