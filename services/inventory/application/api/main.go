package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/fournil/pkg/app"
	"github.com/ghuser/fournil/services/inventory/application/handlers"
	appsvcs "github.com/ghuser/fournil/services/inventory/application/services"
)

// InventoryRoutes registers ingredient endpoints on the provided chi router.
func InventoryRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	h := handlers.NewIngredientHandlers(svcs)
	r.Route("/ingredients", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/low-stock", h.LowStock)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Post("/deduct", h.Deduct)
		})
	})
}
