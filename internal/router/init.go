package router

import (
	"github.com/natoursapp/natours-api/internal/application"
	"github.com/natoursapp/natours-api/internal/container"
	pginfra "github.com/natoursapp/natours-api/internal/infrastructure/postgres"
	handlers "github.com/natoursapp/natours-api/internal/interface/http"
	"github.com/natoursapp/natours-api/internal/router/modules"
)

// InitModules constructs repositories, services and handlers from the
// container singletons and registers every feature module. Call once
// during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	userRepo := pginfra.NewUserRepository(pool)
	tourRepo := pginfra.NewTourRepository(pool)

	authSvc := application.NewAuthService(
		userRepo,
		container.GetJWT(),
		container.GetNotifier(),
		container.GetRabbitPub(),
		logger,
		cfg,
	)
	userSvc := application.NewUserService(userRepo, container.GetGCS(), cfg.GCSBucket, logger)
	tourSvc := application.NewTourService(tourRepo, container.GetRedis(), container.GetES(), cfg.ESToursIndex, logger)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger), authSvc))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), authSvc))
	r.Add(modules.NewTourModule(handlers.NewTourHandler(tourSvc, logger), authSvc))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
