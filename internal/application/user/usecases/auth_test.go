package usecases

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unical-dimes/professors/internal/application/user/helpers"
	"github.com/unical-dimes/professors/internal/infrastructure/persistence/models"
	"github.com/unical-dimes/professors/internal/shared/authorization"
	"github.com/unical-dimes/professors/internal/shared/errors"
)

func assertErrorType(t *testing.T, err error, want errors.ErrorType, status int) {
	t.Helper()
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr, "expected an AppError, got %v", err)
	assert.Equal(t, want, appErr.Type)
	assert.Equal(t, status, appErr.Code)
}

func TestRegisterUser(t *testing.T) {
	env := newTestEnv(t, 5)
	ctx := context.Background()

	u := env.registerUser(t, "Student@Unical.it")
	assert.NotZero(t, u.ID())
	assert.Equal(t, "student@unical.it", u.Email())
	assert.Equal(t, []string{"viewer"}, u.Roles())
	assert.NotEqual(t, testPassword, u.PasswordHash())

	stored, err := env.users.GetByID(ctx, u.ID())
	require.NoError(t, err)
	assert.Equal(t, []string{"viewer"}, stored.Roles())

	tests := []struct {
		name   string
		cmd    RegisterUserCommand
		want   errors.ErrorType
		status int
	}{
		{"duplicate email", RegisterUserCommand{Email: "student@unical.it", Password: testPassword}, errors.ErrorTypeDuplicateAccount, http.StatusBadRequest},
		{"duplicate email in other case", RegisterUserCommand{Email: "STUDENT@unical.it", Password: testPassword}, errors.ErrorTypeDuplicateAccount, http.StatusBadRequest},
		{"short password", RegisterUserCommand{Email: "new@unical.it", Password: "short"}, errors.ErrorTypeValidation, http.StatusBadRequest},
		{"invalid email", RegisterUserCommand{Email: "not-an-email", Password: testPassword}, errors.ErrorTypeValidation, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.register.Execute(ctx, tt.cmd)
			assertErrorType(t, err, tt.want, tt.status)
		})
	}
}

func TestLoginWithPassword(t *testing.T) {
	env := newTestEnv(t, 5)
	ctx := context.Background()
	u := env.registerUser(t, "login@example.com")

	t.Run("success issues both tokens", func(t *testing.T) {
		result, err := env.login.Execute(ctx, LoginWithPasswordCommand{
			Email:     "LOGIN@example.com",
			Password:  testPassword,
			IPAddress: "192.0.2.10",
			UserAgent: "test-agent",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(900), result.ExpiresIn)

		access, err := env.codec.DecodeAccess(result.AccessToken)
		require.NoError(t, err)
		id, err := access.UserID()
		require.NoError(t, err)
		assert.Equal(t, u.ID(), id)
		assert.Equal(t, []string{"viewer"}, access.Roles)

		session, err := env.store.Lookup(ctx, result.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, "192.0.2.10", session.IPAddress)
		assert.Equal(t, "test-agent", session.UserAgent)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		_, err := env.login.Execute(ctx, LoginWithPasswordCommand{Email: "login@example.com", Password: "wrong-password-123"})
		assertErrorType(t, err, errors.ErrorTypeInvalidCredentials, http.StatusUnauthorized)

		_, err = env.login.Execute(ctx, LoginWithPasswordCommand{Email: "nobody@example.com", Password: testPassword})
		assertErrorType(t, err, errors.ErrorTypeInvalidCredentials, http.StatusUnauthorized)
	})

	t.Run("disabled account is distinct from bad credentials", func(t *testing.T) {
		env.deactivate(t, u)

		_, err := env.login.Execute(ctx, LoginWithPasswordCommand{Email: "login@example.com", Password: testPassword})
		assertErrorType(t, err, errors.ErrorTypeAccountDisabled, http.StatusForbidden)

		// A wrong password on a disabled account still reads as bad credentials.
		_, err = env.login.Execute(ctx, LoginWithPasswordCommand{Email: "login@example.com", Password: "wrong-password-123"})
		assertErrorType(t, err, errors.ErrorTypeInvalidCredentials, http.StatusUnauthorized)
	})
}

func TestLoginWithPassword_EnforcesSessionCap(t *testing.T) {
	env := newTestEnv(t, 2)
	ctx := context.Background()
	u := env.registerUser(t, "cap@example.com")

	var tokens []string
	for i := 0; i < 3; i++ {
		tokens = append(tokens, env.loginUser(t, "cap@example.com").RefreshToken)
		env.clock.Advance(time.Second)
	}

	sessions, err := env.sessions.ListByUserID(ctx, u.ID())
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	_, err = env.store.Lookup(ctx, tokens[0])
	assertErrorType(t, err, errors.ErrorTypeSessionNotFound, http.StatusUnauthorized)
	for _, tok := range tokens[1:] {
		_, err := env.store.Lookup(ctx, tok)
		assert.NoError(t, err)
	}
}

func TestRefreshToken(t *testing.T) {
	env := newTestEnv(t, 5)
	ctx := context.Background()
	env.registerUser(t, "refresh@example.com")

	t.Run("rotation makes refresh tokens single use", func(t *testing.T) {
		login := env.loginUser(t, "refresh@example.com")
		before, err := env.store.Lookup(ctx, login.RefreshToken)
		require.NoError(t, err)

		env.clock.Advance(time.Minute)
		result, err := env.refresh.Execute(ctx, RefreshTokenCommand{RefreshToken: login.RefreshToken})
		require.NoError(t, err)
		assert.NotEqual(t, login.RefreshToken, result.RefreshToken)
		_, err = env.codec.DecodeAccess(result.AccessToken)
		require.NoError(t, err)

		after, err := env.store.Lookup(ctx, result.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, before.ID, after.ID)

		_, err = env.refresh.Execute(ctx, RefreshTokenCommand{RefreshToken: login.RefreshToken})
		assertErrorType(t, err, errors.ErrorTypeSessionNotFound, http.StatusUnauthorized)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		login := env.loginUser(t, "refresh@example.com")
		_, err := env.refresh.Execute(ctx, RefreshTokenCommand{RefreshToken: login.AccessToken})
		assertErrorType(t, err, errors.ErrorTypeTokenInvalid, http.StatusUnauthorized)
	})

	t.Run("session deleted out of band", func(t *testing.T) {
		login := env.loginUser(t, "refresh@example.com")
		require.NoError(t, env.db.Where("refresh_token_hash = ?", helpers.HashToken(login.RefreshToken)).
			Delete(&models.SessionModel{}).Error)

		_, err := env.refresh.Execute(ctx, RefreshTokenCommand{RefreshToken: login.RefreshToken})
		assertErrorType(t, err, errors.ErrorTypeSessionNotFound, http.StatusUnauthorized)
	})

	t.Run("expired token", func(t *testing.T) {
		login := env.loginUser(t, "refresh@example.com")
		env.clock.Advance(env.codec.RefreshTTL() + time.Second)
		defer env.clock.Advance(-(env.codec.RefreshTTL() + time.Second))

		_, err := env.refresh.Execute(ctx, RefreshTokenCommand{RefreshToken: login.RefreshToken})
		assertErrorType(t, err, errors.ErrorTypeTokenInvalid, http.StatusUnauthorized)
	})
}

func TestRefreshToken_SubjectMismatchRevokesSession(t *testing.T) {
	env := newTestEnv(t, 5)
	ctx := context.Background()
	env.registerUser(t, "alice@example.com")
	bob := env.registerUser(t, "bob@example.com")

	login := env.loginUser(t, "alice@example.com")
	session, err := env.store.Lookup(ctx, login.RefreshToken)
	require.NoError(t, err)

	// Point alice's session at bob so the token subject no longer matches.
	require.NoError(t, env.db.Model(&models.SessionModel{}).
		Where("id = ?", session.ID).
		Update("user_id", bob.ID()).Error)

	_, err = env.refresh.Execute(ctx, RefreshTokenCommand{RefreshToken: login.RefreshToken})
	assertErrorType(t, err, errors.ErrorTypeTokenSessionMismatch, http.StatusUnauthorized)

	_, err = env.store.Lookup(ctx, login.RefreshToken)
	assertErrorType(t, err, errors.ErrorTypeSessionNotFound, http.StatusUnauthorized)
}

func TestRefreshToken_UnavailableUserRevokesSession(t *testing.T) {
	env := newTestEnv(t, 5)
	ctx := context.Background()
	u := env.registerUser(t, "gone@example.com")
	login := env.loginUser(t, "gone@example.com")

	env.deactivate(t, u)

	_, err := env.refresh.Execute(ctx, RefreshTokenCommand{RefreshToken: login.RefreshToken})
	assertErrorType(t, err, errors.ErrorTypeUserUnavailable, http.StatusUnauthorized)

	_, err = env.store.Lookup(ctx, login.RefreshToken)
	assertErrorType(t, err, errors.ErrorTypeSessionNotFound, http.StatusUnauthorized)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t, 5)
	ctx := context.Background()
	env.registerUser(t, "logout@example.com")
	login := env.loginUser(t, "logout@example.com")

	require.NoError(t, env.logout.Execute(ctx, LogoutCommand{RefreshToken: login.RefreshToken}))

	err := env.logout.Execute(ctx, LogoutCommand{RefreshToken: login.RefreshToken})
	assertErrorType(t, err, errors.ErrorTypeSessionNotFound, http.StatusUnauthorized)

	_, err = env.refresh.Execute(ctx, RefreshTokenCommand{RefreshToken: login.RefreshToken})
	assertErrorType(t, err, errors.ErrorTypeSessionNotFound, http.StatusUnauthorized)
}

func TestResolveIdentity(t *testing.T) {
	env := newTestEnv(t, 5)
	ctx := context.Background()
	u := env.registerUser(t, "me@example.com")
	login := env.loginUser(t, "me@example.com")

	identity, err := env.identity.Execute(ctx, login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID(), identity.User.ID())
	assert.Equal(t, []string{"viewer"}, identity.Roles)

	ghost, err := env.codec.IssueAccess(9999, []string{"admin"}, time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage", "not-a-jwt"},
		{"refresh token presented as access", login.RefreshToken},
		{"user no longer exists", ghost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.identity.Execute(ctx, tt.token)
			assertErrorType(t, err, errors.ErrorTypeUnauthenticated, http.StatusUnauthorized)
		})
	}

	t.Run("disabled account is forbidden", func(t *testing.T) {
		other := env.registerUser(t, "disabled@example.com")
		token, err := env.codec.IssueAccess(other.ID(), other.Roles(), time.Minute)
		require.NoError(t, err)
		env.deactivate(t, other)

		_, err = env.identity.Execute(ctx, token)
		assertErrorType(t, err, errors.ErrorTypeForbidden, http.StatusForbidden)
	})
}

func TestAuthorize_RoleSets(t *testing.T) {
	env := newTestEnv(t, 5)
	ctx := context.Background()
	env.registerUser(t, "viewer@example.com")
	login := env.loginUser(t, "viewer@example.com")

	_, err := env.identity.Authorize(ctx, login.AccessToken, authorization.AdminOnly)
	assertErrorType(t, err, errors.ErrorTypeForbidden, http.StatusForbidden)

	identity, err := env.identity.Authorize(ctx, login.AccessToken, authorization.AnyMember)
	require.NoError(t, err)
	assert.True(t, identity.Permits(authorization.AnyMember))

	_, err = env.identity.Authorize(ctx, login.AccessToken, nil)
	assert.NoError(t, err)
}

func TestAuthorize_UsesStoredRoles(t *testing.T) {
	env := newTestEnv(t, 5)
	ctx := context.Background()
	u := env.registerUser(t, "chair@example.com")
	_, err := env.roles.AssignRolesByName(ctx, u.ID(), []string{"admin"})
	require.NoError(t, err)
	login := env.loginUser(t, "chair@example.com")

	identity, err := env.identity.Authorize(ctx, login.AccessToken, authorization.AdminOnly)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, identity.Roles)

	_, err = env.roles.AssignRolesByName(ctx, u.ID(), []string{"viewer"})
	require.NoError(t, err)

	t.Run("demotion applies to a token issued before it", func(t *testing.T) {
		_, err := env.identity.Authorize(ctx, login.AccessToken, authorization.AdminOnly)
		assertErrorType(t, err, errors.ErrorTypeForbidden, http.StatusForbidden)
	})

	t.Run("identity reports the stored roles", func(t *testing.T) {
		identity, err := env.identity.Execute(ctx, login.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, []string{"viewer"}, identity.Roles)
	})
}
