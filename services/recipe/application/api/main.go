package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/fournil/pkg/app"
	"github.com/ghuser/fournil/services/recipe/application/handlers"
	appsvcs "github.com/ghuser/fournil/services/recipe/application/services"
)

// RecipeRoutes registers recipe endpoints on the provided chi router.
func RecipeRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	h := handlers.NewRecipeHandlers(svcs)
	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Get("/cost", h.Cost)
			r.Get("/check-stock", h.CheckStock)
		})
	})
}
