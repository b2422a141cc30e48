package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/unical-dimes/professors/internal/infrastructure/config"
	"github.com/unical-dimes/professors/internal/infrastructure/persistence/models"
	sharedConfig "github.com/unical-dimes/professors/internal/shared/config"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testPassword = "correct-horse-battery"

func testConfig(authRequests int) *config.Config {
	return &config.Config{
		Server: sharedConfig.ServerConfig{Mode: "test", AllowedOrigins: []string{"http://localhost:5173"}},
		Auth: sharedConfig.AuthConfig{
			Password: sharedConfig.PasswordConfig{
				Algorithm:     "argon2id",
				MinLength:     12,
				Argon2Time:    1,
				Argon2Memory:  8 * 1024,
				Argon2Threads: 1,
			},
			JWT: sharedConfig.JWTConfig{
				AccessSecret:     "router-test-access-secret",
				RefreshSecret:    "router-test-refresh-secret",
				Algorithm:        "HS256",
				Issuer:           "unical-dimes-professors",
				Audience:         "unical-dimes-professors-api",
				AccessExpMinutes: 15,
				RefreshExpDays:   7,
			},
			Session: sharedConfig.SessionConfig{MaxActivePerUser: 5},
		},
		RateLimit: sharedConfig.RateLimitConfig{
			Enabled:       authRequests > 0,
			AuthRequests:  authRequests,
			WindowSeconds: 60,
		},
	}
}

type testServer struct {
	t      *testing.T
	router *Router
}

func newTestServer(t *testing.T, authRequests int) *testServer {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	router, err := NewRouter(gdb, testConfig(authRequests), logger.NewNopLogger())
	require.NoError(t, err)
	router.SetupRoutes()
	t.Cleanup(router.Shutdown)
	return &testServer{t: t, router: router}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.GetEngine().ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w.Code, env
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type idOnly struct {
	ID    uint     `json:"id"`
	Roles []string `json:"roles"`
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func (s *testServer) register(email string) idOnly {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": email, "password": testPassword})
	require.Equal(s.t, http.StatusCreated, code)
	return decode[idOnly](s.t, env)
}

func (s *testServer) login(email string) tokenPair {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": testPassword})
	require.Equal(s.t, http.StatusOK, code)
	return decode[tokenPair](s.t, env)
}

// promote grants roles directly and returns a fresh login carrying them.
func (s *testServer) promote(userID uint, email string, roles ...string) tokenPair {
	s.t.Helper()
	_, err := s.router.permissionService.AssignRolesByName(context.Background(), userID, roles)
	require.NoError(s.t, err)
	return s.login(email)
}

func TestRouter_HealthAndRoot(t *testing.T) {
	s := newTestServer(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.GetEngine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	w = httptest.NewRecorder()
	s.router.GetEngine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Professor Review API")
}

func TestRouter_AuthFlow(t *testing.T) {
	s := newTestServer(t, 0)
	const email = "student@unical.it"

	created := s.register(email)
	assert.Equal(t, []string{"viewer"}, created.Roles)

	code, env := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": email, "password": testPassword})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "duplicate_account", env.Error.Type)

	code, env = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "wrong-password-here"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid_credentials", env.Error.Type)

	tokens := s.login(email)
	assert.Equal(t, "bearer", tokens.TokenType)

	code, env = s.do(http.MethodGet, "/api/auth/me", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, created.ID, decode[idOnly](t, env).ID)

	code, _ = s.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = s.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": tokens.RefreshToken})
	require.Equal(t, http.StatusOK, code)
	rotated := decode[tokenPair](t, env)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// the rotated-away refresh token is dead
	code, _ = s.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodPost, "/api/auth/logout", "", map[string]string{"refresh_token": rotated.RefreshToken})
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = s.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": rotated.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, code)

	// access tokens are stateless and stay valid until they expire
	code, _ = s.do(http.MethodGet, "/api/auth/me", rotated.AccessToken, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_CatalogAccess(t *testing.T) {
	s := newTestServer(t, 0)

	s.register("viewer@unical.it")
	viewerTokens := s.login("viewer@unical.it")

	code, _ := s.do(http.MethodPost, "/api/teachers", "", map[string]string{"name": "Prof. Rossi"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := s.do(http.MethodPost, "/api/teachers", viewerTokens.AccessToken, map[string]string{"name": "Prof. Rossi"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "forbidden", env.Error.Type)

	admin := s.register("admin@unical.it")
	adminTokens := s.promote(admin.ID, "admin@unical.it", "admin", "editor", "viewer")

	code, env = s.do(http.MethodPost, "/api/teachers", adminTokens.AccessToken, map[string]string{"name": "Mario Rossi", "department": "DEMACS"})
	require.Equal(t, http.StatusOK, code)
	teacher := decode[idOnly](t, env)

	code, env = s.do(http.MethodPost, "/api/courses", adminTokens.AccessToken, map[string]interface{}{"name": "Distributed Systems", "teacher_id": teacher.ID})
	require.Equal(t, http.StatusOK, code)
	course := decode[idOnly](t, env)

	code, _ = s.do(http.MethodGet, "/api/teachers", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodGet, fmt.Sprintf("/api/teachers/%d", teacher.ID), "", nil)
	assert.Equal(t, http.StatusOK, code)

	t.Run("viewer reviews", func(t *testing.T) {
		code, env := s.do(http.MethodPost, "/api/reviews", viewerTokens.AccessToken, map[string]interface{}{
			"teacher_id":  teacher.ID,
			"course_id":   course.ID,
			"rating":      5,
			"description": "Mario Rossi gives clear explanations, helpful office hours and fair grading",
		})
		require.Equal(t, http.StatusOK, code, env.Message)

		code, env = s.do(http.MethodGet, fmt.Sprintf("/api/teachers/%d/reviews", teacher.ID), "", nil)
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, decode[[]idOnly](t, env), 1)
	})

	t.Run("preview blocks a personal attack", func(t *testing.T) {
		code, env := s.do(http.MethodPost, "/api/reviews/moderate", viewerTokens.AccessToken, map[string]interface{}{
			"teacher_id":  teacher.ID,
			"course_id":   course.ID,
			"description": "You are an idiot and I hate you",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.False(t, env.Success)
	})

	t.Run("blocked review is not stored", func(t *testing.T) {
		code, env := s.do(http.MethodPost, "/api/reviews", viewerTokens.AccessToken, map[string]interface{}{
			"teacher_id":  teacher.ID,
			"course_id":   course.ID,
			"rating":      1,
			"description": "You are an idiot and I hate you",
		})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "moderation_blocked", env.Error.Type)

		_, env = s.do(http.MethodGet, fmt.Sprintf("/api/teachers/%d/reviews", teacher.ID), "", nil)
		assert.Len(t, decode[[]idOnly](t, env), 1)
	})

	t.Run("public catalog reads", func(t *testing.T) {
		code, env := s.do(http.MethodGet, "/api/courses?skip=0&limit=10", "", nil)
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, decode[[]idOnly](t, env), 1)

		code, env = s.do(http.MethodGet, fmt.Sprintf("/api/courses/%d", course.ID), "", nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, course.ID, decode[idOnly](t, env).ID)

		code, _ = s.do(http.MethodGet, "/api/courses/999", "", nil)
		assert.Equal(t, http.StatusNotFound, code)

		code, _ = s.do(http.MethodGet, "/api/reviews?limit=500", "", nil)
		assert.Equal(t, http.StatusBadRequest, code)

		code, env = s.do(http.MethodGet, "/api/reviews", "", nil)
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, decode[[]idOnly](t, env), 1)
	})

	t.Run("only admins delete", func(t *testing.T) {
		editor := s.register("editor@unical.it")
		editorTokens := s.promote(editor.ID, "editor@unical.it", "editor")

		code, _ := s.do(http.MethodDelete, fmt.Sprintf("/api/teachers/%d", teacher.ID), editorTokens.AccessToken, nil)
		assert.Equal(t, http.StatusForbidden, code)

		code, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/teachers/%d", teacher.ID), adminTokens.AccessToken, nil)
		assert.Equal(t, http.StatusNoContent, code)

		code, _ = s.do(http.MethodGet, fmt.Sprintf("/api/teachers/%d", teacher.ID), "", nil)
		assert.Equal(t, http.StatusNotFound, code)
	})
}

type listedUser struct {
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

func TestRouter_AdminDeactivatesUser(t *testing.T) {
	s := newTestServer(t, 0)

	admin := s.register("admin@unical.it")
	adminTokens := s.promote(admin.ID, "admin@unical.it", "admin")

	target := s.register("student@unical.it")
	targetTokens := s.login("student@unical.it")

	code, _ := s.do(http.MethodGet, "/api/admin/users", targetTokens.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := s.do(http.MethodGet, "/api/admin/roles", adminTokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]idOnly](t, env), 3)

	code, env = s.do(http.MethodPut, fmt.Sprintf("/api/admin/users/%d", target.ID), adminTokens.AccessToken, map[string]interface{}{"role_names": []string{"ghost"}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "unknown_role", env.Error.Type)

	code, _ = s.do(http.MethodPut, fmt.Sprintf("/api/admin/users/%d", target.ID), adminTokens.AccessToken, map[string]interface{}{"is_active": false})
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": targetTokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = s.do(http.MethodGet, "/api/admin/users", adminTokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]listedUser](t, env), 2, "inactive accounts are listed by default")

	code, env = s.do(http.MethodGet, "/api/admin/users?include_inactive=false", adminTokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)
	active := decode[[]listedUser](t, env)
	require.Len(t, active, 1)
	assert.Equal(t, "admin@unical.it", active[0].Email)

	code, env = s.do(http.MethodGet, "/api/auth/me", targetTokens.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "forbidden", env.Error.Type)

	code, _ = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "student@unical.it", "password": testPassword})
	assert.NotEqual(t, http.StatusOK, code)

	code, _ = s.do(http.MethodPut, "/api/admin/users/9999", adminTokens.AccessToken, map[string]interface{}{"is_active": true})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouter_RateLimitsAuth(t *testing.T) {
	s := newTestServer(t, 2)
	body := map[string]string{"email": "nobody@unical.it", "password": testPassword}

	for i := 0; i < 2; i++ {
		code, _ := s.do(http.MethodPost, "/api/auth/login", "", body)
		require.Equal(t, http.StatusUnauthorized, code)
	}
	code, env := s.do(http.MethodPost, "/api/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "rate_limited", env.Error.Type)

	// register keeps its own budget
	code, _ = s.do(http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusCreated, code)
}
