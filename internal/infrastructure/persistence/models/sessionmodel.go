package models

import (
	"time"

	"github.com/unical-dimes/professors/internal/shared/constants"
)

// SessionModel represents the database persistence model for sessions.
type SessionModel struct {
	ID               uint      `gorm:"primarykey"`
	UserID           uint      `gorm:"not null;index"`
	RefreshTokenHash string    `gorm:"uniqueIndex;not null;size:64"`
	UserAgent        string    `gorm:"size:255"`
	IPAddress        string    `gorm:"size:64"`
	ExpiresAt        time.Time `gorm:"not null;index"`
	CreatedAt        time.Time `gorm:"not null;index"`
	LastUsedAt       time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (SessionModel) TableName() string {
	return constants.TableUserSessions
}
