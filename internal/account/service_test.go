package account

import (
	"context"
	"testing"

	"comic-service/internal/auth/credentials"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newServiceForTests(t *testing.T) *Service {
	t.Helper()
	return NewService(NewMemoryStore(), WithHasher(credentials.Hasher{Cost: bcrypt.MinCost}))
}

func TestService_Register_DefaultsUserNameToLocalPart(t *testing.T) {
	svc := newServiceForTests(t)
	ctx := context.Background()

	p, err := svc.Register(ctx, RegisterRequest{
		Email:    "reader@example.com",
		FullName: " Avid Reader ",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "reader", p.UserName)
	assert.Equal(t, "Avid Reader", p.FullName)
}

func TestService_Register_DuplicateEmailIsCaseInsensitive(t *testing.T) {
	svc := newServiceForTests(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "dup@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Email: "DUP@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestService_Register_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{name: "empty email", req: RegisterRequest{Password: "password123"}, wantErr: ErrInvalidEmail},
		{name: "malformed email", req: RegisterRequest{Email: "not-an-email", Password: "password123"}, wantErr: ErrInvalidEmail},
		{name: "short password", req: RegisterRequest{Email: "a@example.com", Password: "short"}, wantErr: credentials.ErrPasswordTooShort},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newServiceForTests(t)
			_, err := svc.Register(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	svc := newServiceForTests(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "login@example.com", Password: "password123"})
	require.NoError(t, err)

	a, err := svc.Authenticate(ctx, "login@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "login@example.com", a.Email)

	_, err = svc.Authenticate(ctx, "login@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "ghost@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_UpdatePassword_RotatesCredential(t *testing.T) {
	svc := newServiceForTests(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "rotate@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePassword(ctx, UpdatePasswordRequest{
		Email:       "rotate@example.com",
		NewPassword: "newpassword456",
	}))

	_, err = svc.Authenticate(ctx, "rotate@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "rotate@example.com", "newpassword456")
	assert.NoError(t, err)

	err = svc.UpdatePassword(ctx, UpdatePasswordRequest{Email: "ghost@example.com", NewPassword: "newpassword456"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_UpdateProfile_KeepsNilFields(t *testing.T) {
	svc := newServiceForTests(t)
	ctx := context.Background()

	p, err := svc.Register(ctx, RegisterRequest{
		Email:    "profile@example.com",
		FullName: "Old Name",
		Password: "password123",
	})
	require.NoError(t, err)

	status := "reading"
	updated, err := svc.UpdateProfile(ctx, p.ID, UpdateProfileRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "Old Name", updated.FullName)
	assert.Equal(t, "profile", updated.UserName)
	assert.Equal(t, "reading", updated.Status)

	blank := " "
	_, err = svc.UpdateProfile(ctx, p.ID, UpdateProfileRequest{Username: &blank})
	assert.ErrorIs(t, err, ErrInvalidUserName)
}

func TestLocalPart(t *testing.T) {
	assert.Equal(t, "user", LocalPart("user@x.com"))
	assert.Equal(t, "nodomain", LocalPart("nodomain"))
}
