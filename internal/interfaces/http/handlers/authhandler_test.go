package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unical-dimes/professors/internal/application/user/dto"
	"github.com/unical-dimes/professors/internal/domain/user"
	vo "github.com/unical-dimes/professors/internal/domain/user/valueobjects"
	"github.com/unical-dimes/professors/internal/interfaces/http/handlers/testutil"
	apperrors "github.com/unical-dimes/professors/internal/shared/errors"
)

// =====================================================================
// Mock auth service
// =====================================================================

type mockAuthService struct {
	registerResult *dto.UserResponse
	tokens         *dto.TokenResponse
	err            error

	lastLogin dto.LoginRequest
	lastMeta  user.ClientMetadata
	logouts   int
}

func (m *mockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	return m.registerResult, m.err
}

func (m *mockAuthService) Login(ctx context.Context, req dto.LoginRequest, meta user.ClientMetadata) (*dto.TokenResponse, error) {
	m.lastLogin = req
	m.lastMeta = meta
	return m.tokens, m.err
}

func (m *mockAuthService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.TokenResponse, error) {
	return m.tokens, m.err
}

func (m *mockAuthService) Logout(ctx context.Context, req dto.RefreshRequest) error {
	m.logouts++
	return m.err
}

// =====================================================================
// Test helpers
// =====================================================================

func createTestUser(t *testing.T) *user.User {
	t.Helper()
	email, err := vo.NewEmail("student@unical.it")
	require.NoError(t, err)
	now := time.Now().UTC()
	u, err := user.ReconstructUser(7, email, "hash", true, []string{"viewer"}, now, now)
	require.NoError(t, err)
	return u
}

func testTokens() *dto.TokenResponse {
	return &dto.TokenResponse{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "bearer",
		ExpiresIn:    900,
	}
}

// =====================================================================
// Register
// =====================================================================

func TestAuthHandler_Register_Success(t *testing.T) {
	svc := &mockAuthService{registerResult: &dto.UserResponse{ID: 1, Email: "student@unical.it", IsActive: true, Roles: []string{"viewer"}}}
	handler := NewAuthHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/register", dto.RegisterRequest{
		Email:    "student@unical.it",
		Password: "a-long-password",
	})
	handler.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)

	var created dto.UserResponse
	require.NoError(t, resp.DecodeData(&created))
	assert.Equal(t, []string{"viewer"}, created.Roles)
}

func TestAuthHandler_Register_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     interface{}
		svcErr   error
		wantCode int
		wantType string
	}{
		{
			name:     "missing password",
			body:     map[string]string{"email": "student@unical.it"},
			wantCode: http.StatusBadRequest,
			wantType: string(apperrors.ErrorTypeValidation),
		},
		{
			name:     "malformed email",
			body:     map[string]string{"email": "not-an-email", "password": "a-long-password"},
			wantCode: http.StatusBadRequest,
			wantType: string(apperrors.ErrorTypeValidation),
		},
		{
			name:     "malformed json",
			body:     `{"email":`,
			wantCode: http.StatusBadRequest,
			wantType: string(apperrors.ErrorTypeValidation),
		},
		{
			name:     "duplicate account",
			body:     dto.RegisterRequest{Email: "student@unical.it", Password: "a-long-password"},
			svcErr:   apperrors.NewDuplicateAccountError(),
			wantCode: http.StatusBadRequest,
			wantType: string(apperrors.ErrorTypeDuplicateAccount),
		},
		{
			name:     "unexpected failure",
			body:     dto.RegisterRequest{Email: "student@unical.it", Password: "a-long-password"},
			svcErr:   errors.New("db down"),
			wantCode: http.StatusInternalServerError,
			wantType: string(apperrors.ErrorTypeInternal),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(&mockAuthService{err: tt.svcErr}, testutil.NewMockLogger())

			c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/register", tt.body)
			handler.Register(c)

			assert.Equal(t, tt.wantCode, w.Code)
			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantType, resp.Error.Type)
		})
	}
}

// =====================================================================
// Login / Refresh / Logout
// =====================================================================

func TestAuthHandler_Login_PassesClientMetadata(t *testing.T) {
	svc := &mockAuthService{tokens: testTokens()}
	handler := NewAuthHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/login", dto.LoginRequest{
		Email:    "student@unical.it",
		Password: "a-long-password",
	})
	c.Request.Header.Set("User-Agent", "handler-test/1.0")
	c.Request.RemoteAddr = "203.0.113.9:5555"
	handler.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "handler-test/1.0", svc.lastMeta.UserAgent)
	assert.Equal(t, "203.0.113.9", svc.lastMeta.IPAddress)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var tokens dto.TokenResponse
	require.NoError(t, resp.DecodeData(&tokens))
	assert.Equal(t, "access", tokens.AccessToken)
	assert.Equal(t, "bearer", tokens.TokenType)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	handler := NewAuthHandler(&mockAuthService{err: apperrors.NewInvalidCredentialsError()}, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/login", dto.LoginRequest{
		Email:    "student@unical.it",
		Password: "wrong-password",
	})
	handler.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Equal(t, string(apperrors.ErrorTypeInvalidCredentials), resp.Error.Type)
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("rotated", func(t *testing.T) {
		handler := NewAuthHandler(&mockAuthService{tokens: testTokens()}, testutil.NewMockLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/refresh", dto.RefreshRequest{RefreshToken: "refresh"})
		handler.Refresh(c)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		handler := NewAuthHandler(&mockAuthService{}, testutil.NewMockLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/refresh", map[string]string{})
		handler.Refresh(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("expired session", func(t *testing.T) {
		handler := NewAuthHandler(&mockAuthService{err: apperrors.NewSessionExpiredError()}, testutil.NewMockLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/refresh", dto.RefreshRequest{RefreshToken: "refresh"})
		handler.Refresh(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		assert.Equal(t, string(apperrors.ErrorTypeSessionExpired), resp.Error.Type)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &mockAuthService{}
	handler := NewAuthHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/logout", dto.RefreshRequest{RefreshToken: "refresh"})
	handler.Logout(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, svc.logouts)
	assert.Empty(t, w.Body.String())
}

// =====================================================================
// Me
// =====================================================================

func TestAuthHandler_Me(t *testing.T) {
	handler := NewAuthHandler(&mockAuthService{}, testutil.NewMockLogger())

	t.Run("with identity", func(t *testing.T) {
		c, w := testutil.NewTestContext(http.MethodGet, "/api/auth/me", nil)
		testutil.SetIdentity(c, createTestUser(t), "viewer")
		handler.Me(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		var me dto.UserResponse
		require.NoError(t, resp.DecodeData(&me))
		assert.Equal(t, uint(7), me.ID)
		assert.Equal(t, "student@unical.it", me.Email)
	})

	t.Run("without identity", func(t *testing.T) {
		c, w := testutil.NewTestContext(http.MethodGet, "/api/auth/me", nil)
		handler.Me(c)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
