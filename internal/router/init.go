package router

import (
	"github.com/dmarkova/go-blog-platform/internal/application"
	"github.com/dmarkova/go-blog-platform/internal/container"
	pginfra "github.com/dmarkova/go-blog-platform/internal/infrastructure/postgres"
	handlers "github.com/dmarkova/go-blog-platform/internal/interface/http"
	"github.com/dmarkova/go-blog-platform/internal/router/modules"
)

// InitModules builds every feature module from the container singletons and
// registers it. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	posts := pginfra.NewPostRepository(pool)
	categories := pginfra.NewCategoryRepository(pool)
	tags := pginfra.NewTagRepository(pool)

	authSvc := application.NewAuthService(
		users,
		container.GetJWT(),
		container.GetRedis(),
		logger,
		container.GetRabbitPub(),
		cfg.AppName,
		cfg.MailSendEnabled,
		cfg.SessionTTL,
	)
	contentSvc := application.NewContentService(posts, categories, tags, logger)

	authHandler := handlers.NewAuthHandler(authSvc, logger, cfg.CookieDomain, cfg.CookieSecure)
	postHandler := handlers.NewPostHandler(contentSvc, logger)
	browseHandler := handlers.NewBrowseHandler(contentSvc, logger)

	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewContentModule(postHandler, container.GetJWT()))
	r.Add(modules.NewBrowseModule(browseHandler))
	r.Add(modules.NewDebugModule())
}
