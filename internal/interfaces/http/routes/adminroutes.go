package routes

import (
	"github.com/gin-gonic/gin"

	vo "github.com/unical-dimes/professors/internal/domain/permission/value_objects"
	"github.com/unical-dimes/professors/internal/interfaces/http/handlers"
	"github.com/unical-dimes/professors/internal/interfaces/http/middleware"
	"github.com/unical-dimes/professors/internal/shared/authorization"
)

// AdminRouteConfig holds dependencies for admin-only routes.
type AdminRouteConfig struct {
	AdminHandler         *handlers.AdminHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupAdminRoutes configures admin-only routes.
func SetupAdminRoutes(api *gin.RouterGroup, cfg *AdminRouteConfig) {
	perm := cfg.PermissionMiddleware

	admin := api.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireRoles(authorization.AdminOnly))
	{
		admin.GET("/roles", perm.RequirePermission(vo.ResourceRole.String(), vo.ActionRead.String()), cfg.AdminHandler.ListRoles)
		admin.GET("/users", perm.RequirePermission(vo.ResourceUser.String(), vo.ActionRead.String()), cfg.AdminHandler.ListUsers)
		admin.PUT("/users/:id", perm.RequirePermission(vo.ResourceUser.String(), vo.ActionUpdate.String()), cfg.AdminHandler.UpdateUser)
	}
}
