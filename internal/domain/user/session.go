package user

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/unical-dimes/professors/internal/shared/constants"
)

// ClientMetadata is optional request context recorded on a session.
type ClientMetadata struct {
	UserAgent string
	IPAddress string
}

// Session is one outstanding refresh-token lease. Only a digest of the
// token is kept; the raw token never reaches storage.
type Session struct {
	ID               uint
	UserID           uint
	RefreshTokenHash string
	UserAgent        string
	IPAddress        string
	ExpiresAt        time.Time
	CreatedAt        time.Time
	LastUsedAt       time.Time
}

func NewSession(userID uint, refreshTokenHash string, meta ClientMetadata, now time.Time, ttl time.Duration) (*Session, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if refreshTokenHash == "" {
		return nil, fmt.Errorf("refresh token hash is required")
	}

	return &Session{
		UserID:           userID,
		RefreshTokenHash: refreshTokenHash,
		UserAgent:        truncate(meta.UserAgent, constants.MaxUserAgentLength),
		IPAddress:        truncate(meta.IPAddress, constants.MaxIPAddressLength),
		ExpiresAt:        now.Add(ttl),
		CreatedAt:        now,
		LastUsedAt:       now,
	}, nil
}

// IsExpired is true once now is past the expiry instant.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Rotate replaces the token digest and extends the lease in place.
func (s *Session) Rotate(refreshTokenHash string, now time.Time, ttl time.Duration) {
	s.RefreshTokenHash = refreshTokenHash
	s.ExpiresAt = now.Add(ttl)
	s.LastUsedAt = now
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	// GetByRefreshTokenHash returns nil, nil when no session matches.
	GetByRefreshTokenHash(ctx context.Context, refreshTokenHash string) (*Session, error)
	// SwapRefreshToken writes the rotated lease only while the stored digest
	// still equals previousHash; otherwise it reports not found.
	SwapRefreshToken(ctx context.Context, session *Session, previousHash string) error
	Delete(ctx context.Context, sessionID uint) error
	// ListByUserID returns the user's sessions newest first.
	ListByUserID(ctx context.Context, userID uint) ([]*Session, error)
	DeleteByIDs(ctx context.Context, sessionIDs []uint) error
	DeleteByUserID(ctx context.Context, userID uint) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
