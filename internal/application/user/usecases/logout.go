package usecases

import (
	"context"

	"github.com/unical-dimes/professors/internal/application/user/helpers"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

type LogoutCommand struct {
	RefreshToken string
}

type LogoutUseCase struct {
	sessions *helpers.SessionStore
	logger   logger.Interface
}

func NewLogoutUseCase(sessions *helpers.SessionStore, logger logger.Interface) *LogoutUseCase {
	return &LogoutUseCase{
		sessions: sessions,
		logger:   logger,
	}
}

// Execute revokes the session behind the token. An unknown token is an
// error, not a silent success.
func (uc *LogoutUseCase) Execute(ctx context.Context, cmd LogoutCommand) error {
	session, err := uc.sessions.Lookup(ctx, cmd.RefreshToken)
	if err != nil {
		return err
	}

	if err := uc.sessions.Revoke(ctx, session); err != nil {
		uc.logger.Errorw("failed to delete session", "error", err, "session_id", session.ID)
		return err
	}

	uc.logger.Infow("user logged out successfully", "user_id", session.UserID, "session_id", session.ID)
	return nil
}
