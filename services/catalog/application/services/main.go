package services

import (
	"github.com/ghuser/fournil/pkg/app"
	"github.com/ghuser/fournil/services/catalog/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the catalog context.
type Services struct {
	Catalog *CatalogService
}

// New wires the catalog services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	return &Services{
		Catalog: NewCatalogService(
			postgres.NewProductRepository(a.Db),
			postgres.NewSaleRepository(a.Db, a.EventBus),
		),
	}
}
