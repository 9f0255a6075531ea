package services

import (
	"github.com/ghuser/fournil/pkg/app"
	invpg "github.com/ghuser/fournil/services/inventory/infrastructure/persistence/postgres"
	"github.com/ghuser/fournil/services/production/infrastructure/persistence/postgres"
	recpg "github.com/ghuser/fournil/services/recipe/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the production context.
type Services struct {
	Run *RunService
}

// New wires the production services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	return &Services{
		Run: NewRunService(
			postgres.NewRunRepository(a.Db, a.EventBus),
			recpg.NewRecipeRepository(a.Db),
			invpg.NewIngredientRepository(a.Db),
		),
	}
}
