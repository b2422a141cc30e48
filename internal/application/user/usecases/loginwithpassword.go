package usecases

import (
	"context"
	"fmt"

	"github.com/unical-dimes/professors/internal/application/user/helpers"
	"github.com/unical-dimes/professors/internal/domain/user"
	vo "github.com/unical-dimes/professors/internal/domain/user/valueobjects"
	"github.com/unical-dimes/professors/internal/shared/errors"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type LoginWithPasswordCommand struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

type LoginWithPasswordResult struct {
	User *user.User
	TokenPair
}

type LoginWithPasswordUseCase struct {
	userRepo       user.Repository
	passwordHasher PasswordHasher
	tokens         helpers.TokenService
	sessions       *helpers.SessionStore
	logger         logger.Interface
}

func NewLoginWithPasswordUseCase(
	userRepo user.Repository,
	hasher PasswordHasher,
	tokens helpers.TokenService,
	sessions *helpers.SessionStore,
	logger logger.Interface,
) *LoginWithPasswordUseCase {
	return &LoginWithPasswordUseCase{
		userRepo:       userRepo,
		passwordHasher: hasher,
		tokens:         tokens,
		sessions:       sessions,
		logger:         logger,
	}
}

// Execute checks credentials first. A disabled account is only reported
// once the password has matched, and with a different error than a bad password.
func (uc *LoginWithPasswordUseCase) Execute(ctx context.Context, cmd LoginWithPasswordCommand) (*LoginWithPasswordResult, error) {
	email, err := vo.NewEmail(cmd.Email)
	if err != nil {
		return nil, errors.NewInvalidCredentialsError()
	}

	existingUser, err := uc.userRepo.GetByEmail(ctx, email.String())
	if err != nil {
		uc.logger.Errorw("failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existingUser == nil || !uc.passwordHasher.Verify(cmd.Password, existingUser.PasswordHash()) {
		uc.logger.Warnw("login failed", "ip_address", cmd.IPAddress)
		return nil, errors.NewInvalidCredentialsError()
	}
	if !existingUser.IsActive() {
		uc.logger.Warnw("login attempt on disabled account", "user_id", existingUser.ID())
		return nil, errors.NewAccountDisabledError()
	}

	roles := existingUser.Roles()
	accessToken, err := uc.tokens.IssueAccess(existingUser.ID(), roles, uc.tokens.AccessTTL())
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	issued, err := uc.sessions.Issue(ctx, existingUser.ID(), roles, user.ClientMetadata{
		UserAgent: cmd.UserAgent,
		IPAddress: cmd.IPAddress,
	})
	if err != nil {
		uc.logger.Errorw("failed to create session", "error", err, "user_id", existingUser.ID())
		return nil, err
	}

	uc.logger.Infow("user logged in", "user_id", existingUser.ID(), "session_id", issued.Session.ID)

	return &LoginWithPasswordResult{
		User: existingUser,
		TokenPair: TokenPair{
			AccessToken:  accessToken,
			RefreshToken: issued.RefreshToken,
			ExpiresIn:    int64(uc.tokens.AccessTTL().Seconds()),
		},
	}, nil
}
