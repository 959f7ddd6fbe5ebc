package account

import (
	"context"
	"time"
)

// Store persists accounts. Email lookups are case-insensitive.
type Store interface {
	// Create fails with ErrAlreadyRegistered when the email is taken.
	Create(ctx context.Context, a Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	UpdatePassword(ctx context.Context, email, hash, version string, at time.Time) error
	UpdateProfile(ctx context.Context, a Account) error
}
