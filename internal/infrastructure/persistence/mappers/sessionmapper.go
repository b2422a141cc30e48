package mappers

import (
	"github.com/unical-dimes/professors/internal/domain/user"
	"github.com/unical-dimes/professors/internal/infrastructure/persistence/models"
)

// SessionMapper handles the conversion between Session domain entities and persistence models.
type SessionMapper interface {
	ToModel(entity *user.Session) *models.SessionModel
	ToDomain(model *models.SessionModel) *user.Session
}

// SessionMapperImpl is the concrete implementation of SessionMapper.
type SessionMapperImpl struct{}

// NewSessionMapper creates a new SessionMapper.
func NewSessionMapper() SessionMapper {
	return &SessionMapperImpl{}
}

func (m *SessionMapperImpl) ToModel(entity *user.Session) *models.SessionModel {
	if entity == nil {
		return nil
	}
	return &models.SessionModel{
		ID:               entity.ID,
		UserID:           entity.UserID,
		RefreshTokenHash: entity.RefreshTokenHash,
		UserAgent:        entity.UserAgent,
		IPAddress:        entity.IPAddress,
		ExpiresAt:        entity.ExpiresAt.UTC(),
		CreatedAt:        entity.CreatedAt.UTC(),
		LastUsedAt:       entity.LastUsedAt.UTC(),
	}
}

func (m *SessionMapperImpl) ToDomain(model *models.SessionModel) *user.Session {
	if model == nil {
		return nil
	}
	return &user.Session{
		ID:               model.ID,
		UserID:           model.UserID,
		RefreshTokenHash: model.RefreshTokenHash,
		UserAgent:        model.UserAgent,
		IPAddress:        model.IPAddress,
		ExpiresAt:        model.ExpiresAt.UTC(),
		CreatedAt:        model.CreatedAt.UTC(),
		LastUsedAt:       model.LastUsedAt.UTC(),
	}
}
