package account

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps accounts in process memory. It backs tests and
// database-less development runs.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]Account
	byEmail map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]Account),
		byEmail: make(map[string]string),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (m *MemoryStore) Create(_ context.Context, a Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := emailKey(a.Email)
	if _, ok := m.byEmail[key]; ok {
		return ErrAlreadyRegistered
	}
	m.byID[a.ID] = a
	m.byEmail[key] = a.ID
	return nil
}

func (m *MemoryStore) GetByEmail(_ context.Context, email string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[emailKey(email)]
	if !ok {
		return nil, ErrNotFound
	}
	a := m.byID[id]
	return &a, nil
}

func (m *MemoryStore) GetByID(_ context.Context, id string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (m *MemoryStore) UpdatePassword(_ context.Context, email, hash, version string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byEmail[emailKey(email)]
	if !ok {
		return ErrNotFound
	}
	a := m.byID[id]
	a.PasswordHash = hash
	a.HashVersion = version
	a.UpdatedAt = at
	m.byID[id] = a
	return nil
}

func (m *MemoryStore) UpdateProfile(_ context.Context, a Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.byID[a.ID]
	if !ok {
		return ErrNotFound
	}
	cur.UserName = a.UserName
	cur.FullName = a.FullName
	cur.Status = a.Status
	cur.UpdatedAt = a.UpdatedAt
	m.byID[a.ID] = cur
	return nil
}
