package auth

import (
	"time"

	"github.com/shopspring/decimal"

	"bank-user-service/internal/usecase/user"
)

// LoginRequest carries the credentials for a login attempt.
type LoginRequest struct {
	Email    string
	Password string
}

// RegisterRequest carries the payload for self-service registration.
// Unlike administrative creation, the password is mandatory here; the
// transport layer enforces that before this type is built.
type RegisterRequest struct {
	FirstName      string
	LastName       string
	Email          string
	Password       string
	PhoneNumber    string
	InitialBalance decimal.Decimal
}

// ChangePasswordRequest carries a password rotation for the
// authenticated user.
type ChangePasswordRequest struct {
	CurrentPassword string
	NewPassword     string
}

// AuthResponse is returned on successful login or registration.
type AuthResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	User      user.UserResponse `json:"user"`
}
