package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/fournil/pkg/app"
	"github.com/ghuser/fournil/services/identity/application/handlers"
	appsvcs "github.com/ghuser/fournil/services/identity/application/services"
)

// AuthRoutes registers the unauthenticated identity endpoints.
func AuthRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	h := handlers.NewAuthHandlers(svcs, a.SessionStore)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/join", h.Join)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})
}

// ShopRoutes registers the session-protected shop and team endpoints.
func ShopRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	h := handlers.NewShopHandlers(svcs)
	r.Route("/shop", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Post("/rotate-invite", h.RotateInviteCode)
	})
	r.Route("/team", func(r chi.Router) {
		r.Get("/", h.Team)
		r.Delete("/{id}", h.RemoveUser)
	})
}
