package credentials

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	HashVersionBcrypt = "bcrypt"

	MinPasswordLength = 8
)

var ErrPasswordTooShort = errors.New("password too short")

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (hash string, version string, err error) {
	return hashWithCost(password, bcrypt.DefaultCost)
}

func hashWithCost(password string, cost int) (string, string, error) {
	if len(password) < MinPasswordLength {
		return "", "", ErrPasswordTooShort
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", "", err
	}

	return string(bytes), HashVersionBcrypt, nil
}

// Hasher lets callers trade hashing cost for speed (tests use MinCost).
type Hasher struct {
	Cost int
}

func (h Hasher) Hash(password string) (string, string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return hashWithCost(password, cost)
}

// VerifyPassword compares plaintext password with stored hash.
func VerifyPassword(hash string, password string) error {
	return bcrypt.CompareHashAndPassword(
		[]byte(hash),
		[]byte(password),
	)
}
