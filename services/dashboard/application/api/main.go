package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/fournil/pkg/app"
	"github.com/ghuser/fournil/services/dashboard/application/handlers"
	appsvcs "github.com/ghuser/fournil/services/dashboard/application/services"
)

// DashboardRoutes registers the aggregate overview endpoint on the provided
// chi router.
func DashboardRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	h := handlers.NewDashboardHandlers(svcs)
	r.Get("/dashboard", h.Overview)
}
