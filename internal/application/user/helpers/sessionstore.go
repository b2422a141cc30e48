package helpers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/unical-dimes/professors/internal/domain/user"
	"github.com/unical-dimes/professors/internal/infrastructure/auth"
	"github.com/unical-dimes/professors/internal/shared/biztime"
	"github.com/unical-dimes/professors/internal/shared/db"
	"github.com/unical-dimes/professors/internal/shared/errors"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

// TokenService is the part of the token codec the auth flows depend on.
type TokenService interface {
	IssueAccess(userID uint, roles []string, ttl time.Duration) (string, error)
	IssueRefresh(userID uint, roles []string, ttl time.Duration) (string, error)
	DecodeAccess(token string) (*auth.Claims, error)
	DecodeRefresh(token string) (*auth.Claims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// IssuedSession pairs a stored session with the raw refresh token handed to the client.
type IssuedSession struct {
	Session      *user.Session
	RefreshToken string
}

// SessionStore keeps one row per outstanding refresh token. Rows are keyed
// by the SHA-256 of the token; the raw value is never persisted.
type SessionStore struct {
	sessions  user.SessionRepository
	tokens    TokenService
	txManager db.Transactor
	clock     biztime.Clock
	maxActive int
	logger    logger.Interface
}

// NewSessionStore builds a store that keeps at most maxActive sessions per
// user. A maxActive of zero or less disables pruning.
func NewSessionStore(
	sessions user.SessionRepository,
	tokens TokenService,
	txManager db.Transactor,
	clock biztime.Clock,
	maxActive int,
	logger logger.Interface,
) *SessionStore {
	if clock == nil {
		clock = biztime.System
	}
	return &SessionStore{
		sessions:  sessions,
		tokens:    tokens,
		txManager: txManager,
		clock:     clock,
		maxActive: maxActive,
		logger:    logger,
	}
}

// HashToken generates SHA256 hash of a token for lookup
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Issue creates a session for the user and prunes the oldest ones beyond the cap.
func (s *SessionStore) Issue(ctx context.Context, userID uint, roles []string, meta user.ClientMetadata) (*IssuedSession, error) {
	ttl := s.tokens.RefreshTTL()
	raw, err := s.tokens.IssueRefresh(userID, roles, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	session, err := user.NewSession(userID, HashToken(raw), meta, s.clock.Now(), ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to build session: %w", err)
	}

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.sessions.Create(txCtx, session); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		return s.prune(txCtx, userID)
	})
	if err != nil {
		return nil, err
	}

	return &IssuedSession{Session: session, RefreshToken: raw}, nil
}

func (s *SessionStore) prune(ctx context.Context, userID uint) error {
	if s.maxActive <= 0 {
		return nil
	}
	active, err := s.sessions.ListByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(active) <= s.maxActive {
		return nil
	}

	// active is newest first, so everything past the cap is the oldest.
	stale := make([]uint, 0, len(active)-s.maxActive)
	for _, session := range active[s.maxActive:] {
		stale = append(stale, session.ID)
	}
	if err := s.sessions.DeleteByIDs(ctx, stale); err != nil {
		return fmt.Errorf("failed to prune sessions: %w", err)
	}
	s.logger.Infow("pruned sessions over cap", "user_id", userID, "pruned", len(stale), "cap", s.maxActive)
	return nil
}

// Rotate replaces the stored digest and expiry in place. The previous raw
// token stops resolving as soon as the update commits. A lease that was
// rotated or revoked since it was looked up fails with SessionNotFound, so
// each refresh token is redeemed at most once.
func (s *SessionStore) Rotate(ctx context.Context, session *user.Session, roles []string) (string, error) {
	ttl := s.tokens.RefreshTTL()
	raw, err := s.tokens.IssueRefresh(session.UserID, roles, ttl)
	if err != nil {
		return "", fmt.Errorf("failed to issue refresh token: %w", err)
	}

	rotated := *session
	rotated.Rotate(HashToken(raw), s.clock.Now(), ttl)

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		return s.sessions.SwapRefreshToken(txCtx, &rotated, session.RefreshTokenHash)
	})
	if err != nil {
		if errors.IsNotFoundError(err) {
			s.logger.Warnw("refresh token redeemed twice", "session_id", session.ID, "user_id", session.UserID)
			return "", errors.NewSessionNotFoundError()
		}
		return "", fmt.Errorf("failed to rotate session: %w", err)
	}

	*session = rotated
	return raw, nil
}

// Lookup resolves a raw refresh token. An expired session is deleted on
// detection and reported as SessionExpired.
func (s *SessionStore) Lookup(ctx context.Context, rawToken string) (*user.Session, error) {
	session, err := s.sessions.GetByRefreshTokenHash(ctx, HashToken(rawToken))
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil {
		return nil, errors.NewSessionNotFoundError()
	}

	if session.IsExpired(s.clock.Now()) {
		if err := s.Revoke(ctx, session); err != nil {
			return nil, err
		}
		s.logger.Infow("removed expired session", "session_id", session.ID, "user_id", session.UserID)
		return nil, errors.NewSessionExpiredError()
	}

	return session, nil
}

// Revoke deletes the session. A row that is already gone counts as revoked.
func (s *SessionStore) Revoke(ctx context.Context, session *user.Session) error {
	err := s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		return s.sessions.Delete(txCtx, session.ID)
	})
	if err != nil && !errors.IsNotFoundError(err) {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// RevokeAllForUser drops every session the user holds.
func (s *SessionStore) RevokeAllForUser(ctx context.Context, userID uint) (int64, error) {
	n, err := s.sessions.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return n, nil
}

// SweepExpired deletes every session past its expiry. It matches the
// scheduler's batch job signature.
func (s *SessionStore) SweepExpired(ctx context.Context) (int, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired sessions: %w", err)
	}
	return int(n), nil
}
