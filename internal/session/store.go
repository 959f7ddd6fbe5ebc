package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session: not found")

// Session represents an authenticated user session.
// It intentionally stores only identity pointers, not auth state.
type Session struct {
	SessionID string    `json:"session_id"` // unique session identifier
	UserID    string    `json:"user_id"`    // references users.id
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"` // absolute expiry time
}

// Store defines how sessions are stored and retrieved.
// Get returns ErrNotFound for unknown or expired sessions.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
