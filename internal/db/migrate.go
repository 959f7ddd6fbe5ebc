package db

import (
	"context"
	"database/sql"
)

const schemaMigration = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS users (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    email text NOT NULL,
    user_name text NOT NULL,
    full_name text NOT NULL DEFAULT '',
    status text NOT NULL DEFAULT '',
    password_hash text NOT NULL,
    hash_version text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_unique
ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS reading_history (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    comic_id text NOT NULL,
    chapter_id text NOT NULL,
    comic_title text NOT NULL DEFAULT '',
    chapter_title text NOT NULL DEFAULT '',
    read_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS reading_history_user_comic_idx
ON reading_history (user_id, comic_id, read_at DESC);
`

func RunMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schemaMigration)
	return err
}
