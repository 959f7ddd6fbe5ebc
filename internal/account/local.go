package account

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// SessionStarter issues an access token for an authenticated user.
type SessionStarter interface {
	Start(ctx context.Context, userID string) (token string, expiresAt time.Time, err error)
}

// LocalAPI serves the account API in-process, with the same status and
// message semantics as the HTTP endpoints. The server's web sign-in uses it
// to run reconciliation without a network hop.
type LocalAPI struct {
	svc      *Service
	sessions SessionStarter
}

func NewLocalAPI(svc *Service, sessions SessionStarter) *LocalAPI {
	return &LocalAPI{svc: svc, sessions: sessions}
}

func (l *LocalAPI) FindUserByEmail(ctx context.Context, email string) (*Profile, error) {
	p, err := l.svc.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (l *LocalAPI) LoginUser(ctx context.Context, email, password string) (*AuthData, error) {
	a, err := l.svc.Authenticate(ctx, email, password)
	if err != nil {
		return nil, AsAPIError(err)
	}

	token, _, err := l.sessions.Start(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	return &AuthData{Status: http.StatusOK, Token: token, Message: "login success"}, nil
}

func (l *LocalAPI) RegisterUser(ctx context.Context, req RegisterRequest) error {
	if _, err := l.svc.Register(ctx, req); err != nil {
		return AsAPIError(err)
	}
	return nil
}

func (l *LocalAPI) UpdatePassword(ctx context.Context, req UpdatePasswordRequest) error {
	if err := l.svc.UpdatePassword(ctx, req); err != nil {
		return AsAPIError(err)
	}
	return nil
}
