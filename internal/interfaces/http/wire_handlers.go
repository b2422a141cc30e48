package http

import (
	"github.com/unical-dimes/professors/internal/infrastructure/ratelimit"
	"github.com/unical-dimes/professors/internal/interfaces/http/handlers"
	"github.com/unical-dimes/professors/internal/interfaces/http/middleware"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	healthHandler  *handlers.HealthHandler
	authHandler    *handlers.AuthHandler
	adminHandler   *handlers.AdminHandler
	catalogHandler *handlers.CatalogHandler
}

// initHandlers builds handlers and the middlewares that guard them.
func (c *Container) initHandlers() {
	sqlDB, err := c.db.DB()
	if err != nil {
		c.log.Warnw("database handle unavailable, health check will not ping", "error", err)
	}

	var pinger handlers.Pinger
	if sqlDB != nil {
		pinger = sqlDB
	}

	c.hdlrs = &allHandlers{
		healthHandler:  handlers.NewHealthHandler(pinger),
		authHandler:    handlers.NewAuthHandler(c.userService, c.log),
		adminHandler:   handlers.NewAdminHandler(c.ucs.listRolesUC, c.ucs.listUsersUC, c.ucs.updateUserUC, c.log),
		catalogHandler: handlers.NewCatalogHandler(c.catalogService, c.log),
	}

	c.authMiddleware = middleware.NewAuthMiddleware(c.userService, c.log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.permissionService, c.log)

	if c.limiter != nil {
		c.rateLimiter = middleware.NewRateLimiter(c.limiter, ratelimit.Rule{
			Limit:  c.cfg.RateLimit.AuthRequests,
			Window: c.cfg.RateLimit.Window(),
		}, c.log)
	}
}
