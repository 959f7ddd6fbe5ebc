package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// ComicHistory returns the most recent entry per comic, newest first.
func (s *Service) ComicHistory(ctx context.Context, userID string) ([]Entry, error) {
	entries, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if seen[e.ComicID] {
			continue
		}
		seen[e.ComicID] = true
		out = append(out, e)
	}
	return out, nil
}

func (s *Service) ChapterHistory(ctx context.Context, userID, comicID string) ([]Entry, error) {
	return s.store.ListByComic(ctx, userID, comicID)
}

func (s *Service) LatestChapter(ctx context.Context, userID, comicID string) (Entry, error) {
	entries, err := s.store.ListByComic(ctx, userID, comicID)
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, ErrNotFound
	}
	return entries[0], nil
}

func (s *Service) Add(ctx context.Context, userID string, req AddRequest) (Entry, error) {
	e := Entry{
		ID:           uuid.NewString(),
		UserID:       userID,
		ComicID:      strings.TrimSpace(req.ComicID),
		ChapterID:    strings.TrimSpace(req.ChapterID),
		ComicTitle:   strings.TrimSpace(req.ComicTitle),
		ChapterTitle: strings.TrimSpace(req.ChapterTitle),
		ReadAt:       s.now().UTC(),
	}
	if e.ComicID == "" || e.ChapterID == "" {
		return Entry{}, ErrInvalidEntry
	}

	if err := s.store.Add(ctx, e); err != nil {
		return Entry{}, fmt.Errorf("failed adding history: %w", err)
	}
	return e, nil
}

// Delete removes one of userID's entries. Ids that are not UUIDs cannot name
// an entry and report ErrNotFound without touching the store.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("failed deleting history: %w", ErrNotFound)
	}
	if err := s.store.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("failed deleting history: %w", err)
	}
	return nil
}
