package session

import (
	"context"
	"errors"
	"time"
)

// Manager creates, resolves and revokes token-backed sessions.
type Manager struct {
	store  Store
	signer *Signer
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(store Store, signer *Signer, ttl time.Duration) *Manager {
	return &Manager{
		store:  store,
		signer: signer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Start persists a new session for userID and returns its access token.
func (m *Manager) Start(ctx context.Context, userID string) (string, time.Time, error) {
	sessionID, err := GenerateID()
	if err != nil {
		return "", time.Time{}, err
	}

	now := m.now()
	sess := Session{
		SessionID: sessionID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.store.Create(ctx, sess); err != nil {
		return "", time.Time{}, err
	}

	token, err := m.signer.Sign(sess)
	if err != nil {
		_ = m.store.Delete(ctx, sessionID)
		return "", time.Time{}, err
	}

	return token, sess.ExpiresAt, nil
}

// Resolve returns the live session behind token.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	claims, err := m.signer.Parse(token)
	if err != nil {
		return nil, err
	}

	sess, err := m.store.Get(ctx, claims.SessionID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	if sess.UserID != claims.Subject {
		return nil, ErrInvalidToken
	}

	// enforce session expiry even if the store kept the record
	if m.now().After(sess.ExpiresAt) {
		_ = m.store.Delete(ctx, sess.SessionID)
		return nil, ErrInvalidToken
	}

	return sess, nil
}

// End revokes the session behind token. Unknown tokens are ignored.
func (m *Manager) End(ctx context.Context, token string) error {
	claims, err := m.signer.Parse(token)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, claims.SessionID)
}
