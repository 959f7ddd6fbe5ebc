package account

import (
	"fmt"
	"time"
)

// Account is the stored user record. PasswordHash never leaves the backend.
type Account struct {
	ID           string
	Email        string
	UserName     string
	FullName     string
	Status       string
	PasswordHash string
	HashVersion  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public view of an account.
type Profile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	UserName string `json:"userName"`
	FullName string `json:"fullName"`
	Status   string `json:"status"`
}

func (a Account) Profile() Profile {
	return Profile{
		ID:       a.ID,
		Email:    a.Email,
		UserName: a.UserName,
		FullName: a.FullName,
		Status:   a.Status,
	}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	UserName string `json:"userName"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdatePasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// UpdateProfileRequest carries optional profile changes; nil fields are kept.
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Status   *string `json:"status"`
}

// AuthData is the login response body.
type AuthData struct {
	Status  int    `json:"status"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

// UserResponse is the find-by-email response body.
type UserResponse struct {
	Status   int      `json:"status"`
	Message  string   `json:"message"`
	UserData *Profile `json:"userData"`
}

// APIError is the error body every endpoint returns on failure.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed: %d", e.Status)
	}
	return e.Message
}
