package history

import (
	"context"

	"comic-service/internal/db"
)

type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Add(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reading_history (
			id, user_id, comic_id, chapter_id, comic_title, chapter_title, read_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		e.ID,
		e.UserID,
		e.ComicID,
		e.ChapterID,
		e.ComicTitle,
		e.ChapterTitle,
		e.ReadAt,
	)
	return err
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]Entry, error) {
	return s.query(ctx, `
		SELECT id, user_id, comic_id, chapter_id, comic_title, chapter_title, read_at
		FROM reading_history
		WHERE user_id = $1
		ORDER BY read_at DESC
	`, userID)
}

func (s *PostgresStore) ListByComic(ctx context.Context, userID, comicID string) ([]Entry, error) {
	return s.query(ctx, `
		SELECT id, user_id, comic_id, chapter_id, comic_title, chapter_title, read_at
		FROM reading_history
		WHERE user_id = $1 AND comic_id = $2
		ORDER BY read_at DESC
	`, userID, comicID)
}

func (s *PostgresStore) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM reading_history
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.ComicID,
			&e.ChapterID,
			&e.ComicTitle,
			&e.ChapterTitle,
			&e.ReadAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
