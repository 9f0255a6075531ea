package services

import (
	"github.com/ghuser/fournil/pkg/app"
	catpg "github.com/ghuser/fournil/services/catalog/infrastructure/persistence/postgres"
	invpg "github.com/ghuser/fournil/services/inventory/infrastructure/persistence/postgres"
	prodpg "github.com/ghuser/fournil/services/production/infrastructure/persistence/postgres"
	recpg "github.com/ghuser/fournil/services/recipe/infrastructure/persistence/postgres"
	wastepg "github.com/ghuser/fournil/services/waste/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the export context.
type Services struct {
	Export *ExportService
}

// New wires the export services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	return &Services{
		Export: NewExportService(
			invpg.NewIngredientRepository(a.Db),
			recpg.NewRecipeRepository(a.Db),
			prodpg.NewRunRepository(a.Db, a.EventBus),
			catpg.NewProductRepository(a.Db),
			catpg.NewSaleRepository(a.Db, a.EventBus),
			wastepg.NewWasteRepository(a.Db),
		),
	}
}
