package services

import (
	"github.com/ghuser/fournil/pkg/app"
	catpg "github.com/ghuser/fournil/services/catalog/infrastructure/persistence/postgres"
	invpg "github.com/ghuser/fournil/services/inventory/infrastructure/persistence/postgres"
	prodpg "github.com/ghuser/fournil/services/production/infrastructure/persistence/postgres"
	wastepg "github.com/ghuser/fournil/services/waste/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the dashboard context.
type Services struct {
	Dashboard *DashboardService
}

// New wires the dashboard service with infrastructure from the Application container.
func New(a *app.Application) *Services {
	return &Services{
		Dashboard: NewDashboardService(
			invpg.NewIngredientRepository(a.Db),
			prodpg.NewRunRepository(a.Db, a.EventBus),
			catpg.NewSaleRepository(a.Db, a.EventBus),
			wastepg.NewWasteRepository(a.Db),
		),
	}
}
