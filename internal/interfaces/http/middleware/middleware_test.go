package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unical-dimes/professors/internal/application/user/usecases"
	"github.com/unical-dimes/professors/internal/domain/user"
	vo "github.com/unical-dimes/professors/internal/domain/user/valueobjects"
	"github.com/unical-dimes/professors/internal/infrastructure/ratelimit"
	"github.com/unical-dimes/professors/internal/shared/authorization"
	"github.com/unical-dimes/professors/internal/shared/biztime"
	"github.com/unical-dimes/professors/internal/shared/constants"
	apperrors "github.com/unical-dimes/professors/internal/shared/errors"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuthorizer maps raw tokens to role lists.
type fakeAuthorizer struct {
	tokens   map[string][]string
	lastSeen string
}

func (f *fakeAuthorizer) Authorize(ctx context.Context, token string, allowed []authorization.UserRole) (*usecases.Identity, error) {
	f.lastSeen = token
	if token == "" {
		return nil, apperrors.NewUnauthenticatedError(constants.ErrMsgMissingCredentials)
	}
	roles, ok := f.tokens[token]
	if !ok {
		return nil, apperrors.NewTokenInvalidError(constants.ErrMsgInvalidAccessToken)
	}
	if allowed != nil && !authorization.Permits(roles, allowed) {
		return nil, apperrors.NewForbiddenError(constants.ErrMsgForbidden)
	}
	email, _ := vo.NewEmail("someone@unical.it")
	now := time.Now().UTC()
	u, err := user.ReconstructUser(11, email, "hash", true, roles, now, now)
	if err != nil {
		return nil, err
	}
	return &usecases.Identity{User: u, Roles: roles}, nil
}

type fakeChecker struct {
	allow bool
	err   error
}

func (f *fakeChecker) CheckPermission(roles []string, resource, action string) (bool, error) {
	return f.allow, f.err
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(ctx context.Context, key string, rule ratelimit.Rule) (bool, error) {
	return false, errors.New("redis: connection refused")
}

func (brokenLimiter) Reset(ctx context.Context, key string) error { return nil }

func serve(engine *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func newAuthEngine(auth *fakeAuthorizer, checker *fakeChecker) *gin.Engine {
	log := logger.NewNopLogger()
	am := NewAuthMiddleware(auth, log)
	pm := NewPermissionMiddleware(checker, log)

	engine := gin.New()
	engine.GET("/me", am.RequireAuth(), func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"roles": identity.Roles, "user_id": c.GetUint(constants.ContextKeyUserID)})
	})
	engine.DELETE("/teachers/1", am.RequireRoles(authorization.AdminOnly), pm.RequirePermission("teacher", "delete"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	engine.GET("/unguarded", pm.RequirePermission("teacher", "read"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"BEARER   abc  ", "abc"},
		{"Basic abc", ""},
		{"abc", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.Header.Set("Authorization", tt.header)
			assert.Equal(t, tt.want, BearerToken(c))
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	auth := &fakeAuthorizer{tokens: map[string][]string{
		"viewer-token": {"viewer"},
		"admin-token":  {"admin"},
	}}
	engine := newAuthEngine(auth, &fakeChecker{allow: true})

	t.Run("no header", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), string(apperrors.ErrorTypeUnauthenticated))
	})

	t.Run("unknown token", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), string(apperrors.ErrorTypeTokenInvalid))
	})

	t.Run("valid token stores identity", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer viewer-token"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "viewer")
		assert.Contains(t, w.Body.String(), `"user_id":11`)
		assert.Equal(t, "viewer-token", auth.lastSeen)
	})

	t.Run("role set excludes viewer", func(t *testing.T) {
		w := serve(engine, http.MethodDelete, "/teachers/1", map[string]string{"Authorization": "Bearer viewer-token"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin passes both gates", func(t *testing.T) {
		w := serve(engine, http.MethodDelete, "/teachers/1", map[string]string{"Authorization": "Bearer admin-token"})
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestPermissionMiddleware(t *testing.T) {
	auth := &fakeAuthorizer{tokens: map[string][]string{"admin-token": {"admin"}}}
	adminHeader := map[string]string{"Authorization": "Bearer admin-token"}

	t.Run("policy denies", func(t *testing.T) {
		engine := newAuthEngine(auth, &fakeChecker{allow: false})
		w := serve(engine, http.MethodDelete, "/teachers/1", adminHeader)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), constants.ErrMsgForbidden)
	})

	t.Run("checker failure is a 500", func(t *testing.T) {
		engine := newAuthEngine(auth, &fakeChecker{err: errors.New("adapter closed")})
		w := serve(engine, http.MethodDelete, "/teachers/1", adminHeader)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("no identity in context", func(t *testing.T) {
		engine := newAuthEngine(auth, &fakeChecker{allow: true})
		w := serve(engine, http.MethodGet, "/unguarded", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	log := logger.NewNopLogger()

	t.Run("limits per scope and client", func(t *testing.T) {
		rl := NewRateLimiter(ratelimit.NewMemoryRateLimiter(biztime.System), ratelimit.Rule{Limit: 2, Window: time.Minute}, log)
		engine := gin.New()
		engine.POST("/login", rl.Limit("login"), func(c *gin.Context) { c.Status(http.StatusOK) })
		engine.POST("/register", rl.Limit("register"), func(c *gin.Context) { c.Status(http.StatusOK) })

		for i := 0; i < 2; i++ {
			require.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/login", nil).Code)
		}
		w := serve(engine, http.MethodPost, "/login", nil)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), string(apperrors.ErrorTypeRateLimited))

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/register", nil).Code)
	})

	t.Run("fails open when the store errors", func(t *testing.T) {
		rl := NewRateLimiter(brokenLimiter{}, ratelimit.Rule{Limit: 1, Window: time.Minute}, log)
		engine := gin.New()
		engine.POST("/login", rl.Limit("login"), func(c *gin.Context) { c.Status(http.StatusOK) })

		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/login", nil).Code)
		}
	})
}

func TestCORS(t *testing.T) {
	engine := gin.New()
	engine.Use(SecurityHeaders(), CORS([]string{"http://localhost:5173"}))
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin is echoed", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/health", map[string]string{"Origin": "http://localhost:5173"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("other origin gets no allow header", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/health", map[string]string{"Origin": "https://evil.example"})
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		w := serve(engine, http.MethodOptions, "/health", map[string]string{"Origin": "http://localhost:5173"})
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery(logger.NewNopLogger()))
	engine.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(engine, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestRequestLogger_RequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestLogger(logger.NewNopLogger()))
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID))
	})

	t.Run("kept", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/ping", map[string]string{constants.HeaderXRequestID: "req-42"})
		assert.Equal(t, "req-42", w.Header().Get(constants.HeaderXRequestID))
		assert.Equal(t, "req-42", w.Body.String())
	})

	t.Run("generated", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/ping", nil)
		id := w.Header().Get(constants.HeaderXRequestID)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})
}
