package history

import "context"

// Store persists history entries. List methods return newest first.
type Store interface {
	Add(ctx context.Context, e Entry) error
	ListByUser(ctx context.Context, userID string) ([]Entry, error)
	ListByComic(ctx context.Context, userID, comicID string) ([]Entry, error)
	// Delete fails with ErrNotFound unless the entry belongs to userID.
	Delete(ctx context.Context, userID, id string) error
}
