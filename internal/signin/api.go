package signin

import (
	"context"

	"comic-service/internal/account"
)

// AccountAPI is the password-account backend the reconciler drives.
//
// LoginUser succeeds only when the backend answers 200 with a token and
// RegisterUser only on 201; any other answer is returned as an error, an
// *account.APIError when the backend sent one.
type AccountAPI interface {
	FindUserByEmail(ctx context.Context, email string) (*account.Profile, error)
	LoginUser(ctx context.Context, email, password string) (*account.AuthData, error)
	RegisterUser(ctx context.Context, req account.RegisterRequest) error
	UpdatePassword(ctx context.Context, req account.UpdatePasswordRequest) error
}

// CredentialStore persists the session token across client restarts.
type CredentialStore interface {
	Save(ctx context.Context, token string) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}
