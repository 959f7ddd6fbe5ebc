package account

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"comic-service/internal/db"
)

// PostgresStore persists accounts in the users table.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectAccount = `
	SELECT id, email, user_name, full_name, status,
	       password_hash, hash_version, created_at, updated_at
	FROM users
`

func scanAccount(row *sql.Row) (*Account, error) {
	var a Account
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.UserName,
		&a.FullName,
		&a.Status,
		&a.PasswordHash,
		&a.HashVersion,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStore) Create(ctx context.Context, a Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (
			id, email, user_name, full_name, status,
			password_hash, hash_version, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		a.ID,
		a.Email,
		a.UserName,
		a.FullName,
		a.Status,
		a.PasswordHash,
		a.HashVersion,
		a.CreatedAt,
		a.UpdatedAt,
	)

	if db.IsUniqueViolation(err) {
		return ErrAlreadyRegistered
	}
	return err
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx,
		selectAccount+`WHERE LOWER(email) = LOWER($1)`,
		email,
	))
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (*Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx,
		selectAccount+`WHERE id = $1`,
		id,
	))
}

func (s *PostgresStore) UpdatePassword(
	ctx context.Context,
	email string,
	hash string,
	version string,
	at time.Time,
) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $2, hash_version = $3, updated_at = $4
		WHERE LOWER(email) = LOWER($1)
	`, email, hash, version, at)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func (s *PostgresStore) UpdateProfile(ctx context.Context, a Account) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET user_name = $2, full_name = $3, status = $4, updated_at = $5
		WHERE id = $1
	`, a.ID, a.UserName, a.FullName, a.Status, a.UpdatedAt)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
