package services

import (
	"github.com/ghuser/fournil/pkg/app"
	catpg "github.com/ghuser/fournil/services/catalog/infrastructure/persistence/postgres"
	invpg "github.com/ghuser/fournil/services/inventory/infrastructure/persistence/postgres"
	"github.com/ghuser/fournil/services/waste/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the waste context.
type Services struct {
	Waste *WasteService
}

// New wires the waste services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	return &Services{
		Waste: NewWasteService(
			postgres.NewWasteRepository(a.Db),
			invpg.NewIngredientRepository(a.Db),
			catpg.NewProductRepository(a.Db),
		),
	}
}
