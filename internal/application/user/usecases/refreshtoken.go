package usecases

import (
	"context"
	"fmt"

	"github.com/unical-dimes/professors/internal/application/user/helpers"
	"github.com/unical-dimes/professors/internal/domain/user"
	"github.com/unical-dimes/professors/internal/shared/errors"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

type RefreshTokenCommand struct {
	RefreshToken string
}

type RefreshTokenResult struct {
	TokenPair
}

type RefreshTokenUseCase struct {
	userRepo user.Repository
	tokens   helpers.TokenService
	sessions *helpers.SessionStore
	logger   logger.Interface
}

func NewRefreshTokenUseCase(
	userRepo user.Repository,
	tokens helpers.TokenService,
	sessions *helpers.SessionStore,
	logger logger.Interface,
) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		sessions: sessions,
		logger:   logger,
	}
}

// Execute trades a refresh token for a new pair and rotates the session in
// place, so the presented token cannot be used again.
func (uc *RefreshTokenUseCase) Execute(ctx context.Context, cmd RefreshTokenCommand) (*RefreshTokenResult, error) {
	claims, err := uc.tokens.DecodeRefresh(cmd.RefreshToken)
	if err != nil {
		return nil, err
	}
	subject, err := claims.UserID()
	if err != nil {
		return nil, errors.NewTokenInvalidError("Invalid refresh token")
	}

	session, err := uc.sessions.Lookup(ctx, cmd.RefreshToken)
	if err != nil {
		return nil, err
	}

	if session.UserID != subject {
		uc.logger.Warnw("refresh token subject does not match session owner",
			"session_id", session.ID,
			"session_user_id", session.UserID,
			"token_subject", subject,
		)
		if err := uc.sessions.Revoke(ctx, session); err != nil {
			return nil, err
		}
		return nil, errors.NewTokenSessionMismatchError()
	}

	// Validate user status - ensure user is still active before issuing new token
	owner, err := uc.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "error", err, "user_id", session.UserID)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if owner == nil || !owner.IsActive() {
		uc.logger.Warnw("refresh for unavailable user", "user_id", session.UserID)
		if err := uc.sessions.Revoke(ctx, session); err != nil {
			return nil, err
		}
		return nil, errors.NewUserUnavailableError()
	}

	roles := owner.Roles()
	accessToken, err := uc.tokens.IssueAccess(owner.ID(), roles, uc.tokens.AccessTTL())
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, err := uc.sessions.Rotate(ctx, session, roles)
	if err != nil {
		uc.logger.Errorw("failed to rotate session", "error", err, "session_id", session.ID)
		return nil, err
	}

	uc.logger.Infow("token refreshed successfully", "user_id", owner.ID(), "session_id", session.ID)

	return &RefreshTokenResult{
		TokenPair: TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int64(uc.tokens.AccessTTL().Seconds()),
		},
	}, nil
}
