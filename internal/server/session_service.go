package server

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codepath/recommender/internal/db"
)

// SessionStore is the session persistence the auth layer depends on.
type SessionStore interface {
	CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*db.Session, error)
	GetSessionByToken(ctx context.Context, token string) (*db.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// SessionService issues and validates auth tokens. Tokens are signed JWTs
// that are also recorded server-side, so logout revokes immediately and
// expired sessions disappear on lookup.
type SessionService struct {
	jwt   *JWTService
	store SessionStore
}

// NewSessionService creates a SessionService from its dependencies.
func NewSessionService(jwtService *JWTService, store SessionStore) *SessionService {
	return &SessionService{jwt: jwtService, store: store}
}

// Issue creates a new session for the user and returns its token.
func (s *SessionService) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	token, expiresAt, err := s.jwt.GenerateToken(userID)
	if err != nil {
		return "", err
	}
	if _, err := s.store.CreateSession(ctx, userID, token, expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

// ValidateToken checks the token's signature and its live session record,
// returning the authenticated user ID.
func (s *SessionService) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return uuid.Nil, err
	}
	session, err := s.store.GetSessionByToken(ctx, token)
	if err != nil {
		return uuid.Nil, err
	}
	if session == nil {
		return uuid.Nil, fmt.Errorf("session not found or expired")
	}
	return claims.UserID, nil
}

// Revoke deletes the session for a token. Revoking an unknown token is a
// no-op.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	return s.store.DeleteSession(ctx, token)
}
