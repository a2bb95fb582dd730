package auth

import (
	"context"

	"bank-user-service/internal/usecase/user"
)

// Usecase defines the interface for authentication operations.
// Login returns nil without error on bad credentials so the transport
// layer can answer with a single undifferentiated message.
type Usecase interface {
	Login(ctx context.Context, in LoginRequest) (*AuthResponse, error)
	Register(ctx context.Context, in RegisterRequest) (*AuthResponse, error)
	ChangePassword(ctx context.Context, userID int64, in ChangePasswordRequest) (bool, error)
	CurrentUser(ctx context.Context, userID int64) (*user.UserResponse, error)
}
