package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/unical-dimes/professors/internal/domain/user"
	"github.com/unical-dimes/professors/internal/infrastructure/persistence/mappers"
	"github.com/unical-dimes/professors/internal/infrastructure/persistence/models"
	"github.com/unical-dimes/professors/internal/shared/db"
	"github.com/unical-dimes/professors/internal/shared/errors"
)

type SessionRepository struct {
	db     *gorm.DB
	mapper mappers.SessionMapper
}

func NewSessionRepository(gdb *gorm.DB) user.SessionRepository {
	return &SessionRepository{
		db:     gdb,
		mapper: mappers.NewSessionMapper(),
	}
}

func (r *SessionRepository) Create(ctx context.Context, session *user.Session) error {
	model := r.mapper.ToModel(session)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	session.ID = model.ID
	return nil
}

// GetByRefreshTokenHash does not filter on expiry; the caller decides what
// to do with an expired row.
func (r *SessionRepository) GetByRefreshTokenHash(ctx context.Context, refreshTokenHash string) (*user.Session, error) {
	var model models.SessionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("refresh_token_hash = ?", refreshTokenHash).
		First(&model).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session by refresh token hash: %w", err)
	}
	return r.mapper.ToDomain(&model), nil
}

func (r *SessionRepository) SwapRefreshToken(ctx context.Context, session *user.Session, previousHash string) error {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.SessionModel{}).
		Where("id = ? AND refresh_token_hash = ?", session.ID, previousHash).
		Updates(map[string]interface{}{
			"refresh_token_hash": session.RefreshTokenHash,
			"expires_at":         session.ExpiresAt.UTC(),
			"last_used_at":       session.LastUsedAt.UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("session not found")
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.SessionModel{}, sessionID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("session not found")
	}
	return nil
}

func (r *SessionRepository) ListByUserID(ctx context.Context, userID uint) ([]*user.Session, error) {
	var rows []models.SessionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Scopes(db.NewestFirst()).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions by user ID: %w", err)
	}

	sessions := make([]*user.Session, len(rows))
	for i := range rows {
		sessions[i] = r.mapper.ToDomain(&rows[i])
	}
	return sessions, nil
}

func (r *SessionRepository) DeleteByIDs(ctx context.Context, sessionIDs []uint) error {
	if len(sessionIDs) == 0 {
		return nil
	}
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", sessionIDs).Delete(&models.SessionModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteByUserID(ctx context.Context, userID uint) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).Where("user_id = ?", userID).Delete(&models.SessionModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete sessions by user ID: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteExpired removes rows whose expiry is before now.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).Where("expires_at < ?", now.UTC()).Delete(&models.SessionModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
