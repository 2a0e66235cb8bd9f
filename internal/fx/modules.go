package fx

import (
	"warboard/internal/api"
	"warboard/internal/cache"
	"warboard/internal/config"
	"warboard/internal/logger"
	"warboard/internal/repository"
	"warboard/internal/server"
	"warboard/internal/service"
	"warboard/internal/session"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	// storage
	fx.Provide(repository.NewTagStore),
	// api client
	fx.Provide(
		fx.Annotate(
			api.NewClient,
			fx.As(new(session.Authenticator)),
			fx.As(new(service.Upstream)),
		),
	),
	fx.Provide(
		fx.Annotate(
			session.NewManager,
			fx.As(new(service.Session)),
		),
	),
	fx.Provide(cache.NewResponseCache),
	// svc
	fx.Provide(service.NewFetcher),
	fx.Provide(service.NewListingService),
	fx.Provide(service.NewAdminService),
	// server
	fx.Provide(server.NewHandler),
)
