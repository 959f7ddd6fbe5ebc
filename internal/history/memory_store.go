package history

import (
	"context"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (m *MemoryStore) Add(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.ID] = e
	return nil
}

func (m *MemoryStore) ListByUser(_ context.Context, userID string) ([]Entry, error) {
	return m.filter(func(e Entry) bool { return e.UserID == userID }), nil
}

func (m *MemoryStore) ListByComic(_ context.Context, userID, comicID string) ([]Entry, error) {
	return m.filter(func(e Entry) bool {
		return e.UserID == userID && e.ComicID == comicID
	}), nil
}

func (m *MemoryStore) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok || e.UserID != userID {
		return ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *MemoryStore) filter(keep func(Entry) bool) []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, 0)
	for _, e := range m.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ReadAt.After(out[j].ReadAt)
	})
	return out
}
