package routes

import (
	"github.com/gin-gonic/gin"

	vo "github.com/unical-dimes/professors/internal/domain/permission/value_objects"
	"github.com/unical-dimes/professors/internal/interfaces/http/handlers"
	"github.com/unical-dimes/professors/internal/interfaces/http/middleware"
	"github.com/unical-dimes/professors/internal/shared/authorization"
)

// CatalogRouteConfig holds dependencies for teacher, course and review routes.
type CatalogRouteConfig struct {
	CatalogHandler       *handlers.CatalogHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupCatalogRoutes configures the catalog. Reads are public; writes are
// gated by role set first and by resource policy second.
func SetupCatalogRoutes(api *gin.RouterGroup, cfg *CatalogRouteConfig) {
	h := cfg.CatalogHandler
	guard := func(roles []authorization.UserRole, resource vo.Resource, action vo.Action) []gin.HandlerFunc {
		return []gin.HandlerFunc{
			cfg.AuthMiddleware.RequireRoles(roles),
			cfg.PermissionMiddleware.RequirePermission(resource.String(), action.String()),
		}
	}

	teachers := api.Group("/teachers")
	{
		teachers.GET("", h.ListTeachers)
		teachers.GET("/:id", h.GetTeacher)
		teachers.GET("/:id/courses", h.ListCourses)
		teachers.GET("/:id/reviews", h.ListReviews)

		teachers.POST("", append(guard(authorization.ContentManager, vo.ResourceTeacher, vo.ActionCreate), h.CreateTeacher)...)
		teachers.PUT("/:id", append(guard(authorization.ContentManager, vo.ResourceTeacher, vo.ActionUpdate), h.UpdateTeacher)...)
		teachers.DELETE("/:id", append(guard(authorization.AdminOnly, vo.ResourceTeacher, vo.ActionDelete), h.DeleteTeacher)...)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", h.BrowseCourses)
		courses.GET("/:id", h.GetCourse)

		courses.POST("", append(guard(authorization.ContentManager, vo.ResourceCourse, vo.ActionCreate), h.CreateCourse)...)
	}

	reviews := api.Group("/reviews")
	{
		reviews.GET("", h.BrowseReviews)

		reviews.POST("", append(guard(authorization.AnyMember, vo.ResourceReview, vo.ActionCreate), h.CreateReview)...)
		reviews.POST("/moderate", append(guard(authorization.AnyMember, vo.ResourceReview, vo.ActionModerate), h.ModerateReview)...)
	}
}
