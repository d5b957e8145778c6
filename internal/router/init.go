package router

import (
	"github.com/creative-rift/arkultur-backend/internal/application"
	"github.com/creative-rift/arkultur-backend/internal/container"
	pginfra "github.com/creative-rift/arkultur-backend/internal/infrastructure/postgres"
	handlers "github.com/creative-rift/arkultur-backend/internal/interface/http"
	"github.com/creative-rift/arkultur-backend/internal/router/modules"
)

// Deps holds everything the feature modules need, built once from the
// container singletons.
type Deps struct {
	Auth     *application.AuthService
	Accounts *application.AccountService

	AuthHandler    *handlers.AuthHandler
	AccountHandler *handlers.AccountHandler
	DomainHandler  *handlers.DomainHandler
}

func buildDeps() Deps {
	pool := container.GetPGPool()
	logger := container.GetLogger()
	cfg := container.GetConfig()

	accountRepo := pginfra.NewAccountRepository(pool)
	profileRepo := pginfra.NewProfileRepository(pool)
	tokenRepo := pginfra.NewTokenRepository(pool)
	addressRepo := pginfra.NewAddressRepository(pool)
	nodeRepo := pginfra.NewNodeRepository(pool)

	authSvc := application.NewAuthService(
		accountRepo,
		tokenRepo,
		container.GetHasher(),
		container.GetRedis(),
		logger,
	)
	accountSvc := application.NewAccountService(
		accountRepo,
		container.GetHasher(),
		authSvc,
		container.GetRabbitPub(),
		logger,
		cfg.ConfirmAccountURL,
		cfg.ResetPasswordURL,
	)

	return Deps{
		Auth:           authSvc,
		Accounts:       accountSvc,
		AuthHandler:    handlers.NewAuthHandler(authSvc, accountSvc, logger),
		AccountHandler: handlers.NewAccountHandler(accountSvc, accountRepo, logger),
		DomainHandler:  handlers.NewDomainHandler(addressRepo, nodeRepo, profileRepo, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildDeps()

	r.Add(modules.NewAuthModule(deps.AuthHandler, deps.Auth))
	r.Add(modules.NewAccountModule(deps.AccountHandler, deps.Auth))
	r.Add(modules.NewDomainModule(deps.DomainHandler, deps.Auth))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
