package router

import (
	"github.com/oksasatya/go-ddd-storefront/internal/container"
	handlers "github.com/oksasatya/go-ddd-storefront/internal/interface/http"
	"github.com/oksasatya/go-ddd-storefront/internal/router/modules"
)

// InitModules builds the handlers from the container singletons and
// registers them. Call once during startup, after the container is filled.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	svc := container.GetStorefront()
	jwt := container.GetJWT()
	rdb := container.GetRedis()
	logger := container.GetLogger()

	authHandler := handlers.NewAuthHandler(svc, logger, cfg.CookieDomain, cfg.CookieSecure)
	storeHandler := handlers.NewStoreHandler(svc, logger, cfg.CookieDomain, cfg.CookieSecure)

	r.Add(modules.NewAuthModule(authHandler, svc, jwt, rdb))
	r.Add(modules.NewStoreModule(storeHandler, svc, jwt, rdb))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(svc, rdb))
	}
}
