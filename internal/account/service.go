package account

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"comic-service/internal/auth/credentials"

	"github.com/google/uuid"
)

// PasswordHasher hashes plaintext passwords for storage.
type PasswordHasher interface {
	Hash(password string) (hash string, version string, err error)
}

type Service struct {
	store  Store
	hasher PasswordHasher
	now    func() time.Time
}

type Option func(*Service)

// WithHasher overrides the default bcrypt cost, mostly for tests.
func WithHasher(h PasswordHasher) Option {
	return func(s *Service) { s.hasher = h }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		hasher: credentials.Hasher{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || !strings.EqualFold(addr.Address, email) {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// LocalPart returns the part of an email before the first "@".
func LocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (Profile, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return Profile{}, err
	}

	userName := strings.TrimSpace(req.UserName)
	if userName == "" {
		userName = LocalPart(email)
	}
	if userName == "" {
		return Profile{}, ErrInvalidUserName
	}

	hash, version, err := s.hasher.Hash(req.Password)
	if err != nil {
		return Profile{}, err
	}

	now := s.now().UTC()
	a := Account{
		ID:           uuid.NewString(),
		Email:        email,
		UserName:     userName,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		HashVersion:  version,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(ctx, a); err != nil {
		return Profile{}, err
	}

	return a.Profile(), nil
}

// Authenticate returns the account for a matching email/password pair.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	a, err := s.store.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		// hide whether user exists or not
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := credentials.VerifyPassword(a.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return a, nil
}

func (s *Service) FindByEmail(ctx context.Context, email string) (Profile, error) {
	a, err := s.store.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return Profile{}, err
	}
	return a.Profile(), nil
}

func (s *Service) UpdatePassword(ctx context.Context, req UpdatePasswordRequest) error {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return err
	}

	hash, version, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}

	return s.store.UpdatePassword(ctx, email, hash, version, s.now().UTC())
}

func (s *Service) Profile(ctx context.Context, userID string) (Profile, error) {
	a, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return a.Profile(), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (Profile, error) {
	a, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	if req.Name != nil {
		a.FullName = strings.TrimSpace(*req.Name)
	}
	if req.Username != nil {
		name := strings.TrimSpace(*req.Username)
		if name == "" {
			return Profile{}, ErrInvalidUserName
		}
		a.UserName = name
	}
	if req.Status != nil {
		a.Status = strings.TrimSpace(*req.Status)
	}
	a.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateProfile(ctx, *a); err != nil {
		return Profile{}, err
	}
	return a.Profile(), nil
}
