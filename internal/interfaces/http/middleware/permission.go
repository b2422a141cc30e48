package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/unical-dimes/professors/internal/shared/constants"
	"github.com/unical-dimes/professors/internal/shared/errors"
	"github.com/unical-dimes/professors/internal/shared/logger"
	"github.com/unical-dimes/professors/internal/shared/utils"
)

type PermissionChecker interface {
	CheckPermission(roles []string, resource, action string) (bool, error)
}

// PermissionMiddleware applies casbin resource/action policies. It runs
// after RequireRoles, which stores the caller's roles.
type PermissionMiddleware struct {
	checker PermissionChecker
	logger  logger.Interface
}

func NewPermissionMiddleware(checker PermissionChecker, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		checker: checker,
		logger:  logger,
	}
}

func (m *PermissionMiddleware) RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			utils.ErrorResponseWithError(c, errors.NewUnauthenticatedError(constants.ErrMsgMissingCredentials))
			c.Abort()
			return
		}

		allowed, err := m.checker.CheckPermission(identity.Roles, resource, action)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "user_id", identity.User.ID(), "resource", resource, "action", action)
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied", "user_id", identity.User.ID(), "roles", identity.Roles, "resource", resource, "action", action)
			utils.ErrorResponseWithError(c, errors.NewForbiddenError(constants.ErrMsgForbidden))
			c.Abort()
			return
		}

		c.Next()
	}
}
