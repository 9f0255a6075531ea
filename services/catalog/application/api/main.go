package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/fournil/pkg/app"
	"github.com/ghuser/fournil/services/catalog/application/handlers"
	appsvcs "github.com/ghuser/fournil/services/catalog/application/services"
)

// CatalogRoutes registers product and till endpoints on the provided chi router.
func CatalogRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	ph := handlers.NewProductHandlers(svcs)
	sh := handlers.NewSaleHandlers(svcs)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", ph.List)
		r.Post("/", ph.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", ph.Get)
			r.Put("/", ph.Update)
			r.Delete("/", ph.Delete)
		})
	})
	r.Route("/sales", func(r chi.Router) {
		r.Get("/", sh.List)
		r.Post("/checkout", sh.Checkout)
		r.Get("/summary", sh.Summary)
		r.Get("/{id}", sh.Get)
	})
}
