package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/unical-dimes/professors/internal/interfaces/http/handlers"
	"github.com/unical-dimes/professors/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter // may be nil when rate limiting is disabled
}

// SetupAuthRoutes configures authentication routes.
func SetupAuthRoutes(api *gin.RouterGroup, cfg *AuthRouteConfig) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", limit(cfg.RateLimiter, "register"), cfg.AuthHandler.Register)
		auth.POST("/login", limit(cfg.RateLimiter, "login"), cfg.AuthHandler.Login)
		auth.POST("/refresh", limit(cfg.RateLimiter, "refresh"), cfg.AuthHandler.Refresh)
		auth.POST("/logout", cfg.AuthHandler.Logout)
		auth.GET("/me", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Me)
	}
}

func limit(rl *middleware.RateLimiter, scope string) gin.HandlerFunc {
	if rl == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return rl.Limit(scope)
}
