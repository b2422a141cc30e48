package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/unical-dimes/professors/internal/application/user/usecases"
	"github.com/unical-dimes/professors/internal/shared/authorization"
	"github.com/unical-dimes/professors/internal/shared/constants"
	"github.com/unical-dimes/professors/internal/shared/errors"
	"github.com/unical-dimes/professors/internal/shared/logger"
	"github.com/unical-dimes/professors/internal/shared/utils"
)

// Authorizer resolves a bearer token and applies a role-set gate.
type Authorizer interface {
	Authorize(ctx context.Context, accessToken string, allowed []authorization.UserRole) (*usecases.Identity, error)
}

type AuthMiddleware struct {
	authorizer Authorizer
	logger     logger.Interface
}

func NewAuthMiddleware(authorizer Authorizer, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		authorizer: authorizer,
		logger:     logger,
	}
}

// RequireAuth admits any active account holding a valid access token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return m.RequireRoles(nil)
}

// RequireRoles admits callers holding at least one role in allowed.
func (m *AuthMiddleware) RequireRoles(allowed []authorization.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := m.authorizer.Authorize(c.Request.Context(), BearerToken(c), allowed)
		if err != nil {
			if errors.ShouldLogAuthError(err) {
				m.logger.Warnw("request rejected", "error", err, "path", c.Request.URL.Path)
			}
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUser, identity)
		c.Set(constants.ContextKeyUserID, identity.User.ID())
		c.Set(constants.ContextKeyUserRoles, identity.Roles)
		c.Next()
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively; anything else yields "".
func BearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader(constants.HeaderAuthorization))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetIdentity returns the identity stored by RequireRoles.
func GetIdentity(c *gin.Context) (*usecases.Identity, bool) {
	v, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*usecases.Identity)
	return identity, ok && identity != nil
}
