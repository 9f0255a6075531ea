package services

import (
	"github.com/ghuser/fournil/pkg/app"
	"github.com/ghuser/fournil/services/identity/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the identity context.
type Services struct {
	Identity *IdentityService
}

// New wires the identity services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	return &Services{
		Identity: NewIdentityService(
			postgres.NewShopRepository(a.Db),
			postgres.NewUserRepository(a.Db),
		),
	}
}
