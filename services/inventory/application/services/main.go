package services

import (
	"github.com/ghuser/fournil/pkg/app"
	"github.com/ghuser/fournil/pkg/cache"
	"github.com/ghuser/fournil/services/inventory/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the inventory context.
type Services struct {
	Ingredient *IngredientService
}

// New wires the inventory services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	repo := postgres.NewIngredientRepository(a.Db)
	var ingredientCache *cache.IngredientCache
	if a.Redis != nil {
		ingredientCache = cache.NewIngredientCache(a.Redis)
	}
	return &Services{
		Ingredient: NewIngredientService(repo, ingredientCache),
	}
}
