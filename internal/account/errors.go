package account

import (
	"errors"
	"net/http"

	"comic-service/internal/auth/credentials"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrAlreadyRegistered  = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidUserName    = errors.New("invalid username")
)

// StatusFor maps a service error to the HTTP status and message the API
// reports for it.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrAlreadyRegistered):
		return http.StatusConflict, ErrAlreadyRegistered.Error()
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrInvalidCredentials.Error()
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, ErrNotFound.Error()
	case errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrInvalidUserName),
		errors.Is(err, credentials.ErrPasswordTooShort):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// AsAPIError wraps err in the same shape the HTTP API returns.
func AsAPIError(err error) *APIError {
	status, msg := StatusFor(err)
	return &APIError{Status: status, Message: msg}
}
