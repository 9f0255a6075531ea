package services

import (
	"github.com/ghuser/fournil/pkg/app"
	invpg "github.com/ghuser/fournil/services/inventory/infrastructure/persistence/postgres"
	"github.com/ghuser/fournil/services/recipe/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the recipe context.
type Services struct {
	Recipe *RecipeService
}

// New wires the recipe services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	return &Services{
		Recipe: NewRecipeService(
			postgres.NewRecipeRepository(a.Db),
			invpg.NewIngredientRepository(a.Db),
		),
	}
}
