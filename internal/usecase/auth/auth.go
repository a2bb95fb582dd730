package auth

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"bank-user-service/internal/usecase/user"
	apperrors "bank-user-service/pkg/errors"
	"bank-user-service/pkg/security"
)

// Service implements the authentication flows on top of the user usecase
// and the token manager.
type Service struct {
	users  user.Usecase
	tokens *security.TokenManager
	log    *zap.Logger
}

var _ Usecase = (*Service)(nil)

// New creates a new authentication service.
func New(users user.Usecase, tokens *security.TokenManager, log *zap.Logger) *Service {
	return &Service{users: users, tokens: tokens, log: log}
}

// Login verifies the credentials and issues a token. Returns nil without
// error when the email is unknown, the account is inactive or the
// password does not match; callers must not distinguish those cases.
func (s *Service) Login(ctx context.Context, in LoginRequest) (*AuthResponse, error) {
	u, err := s.users.GetUserEntityByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error("login lookup failed", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}
	if u == nil {
		s.log.Info("login rejected, unknown email", zap.String("email", in.Email))
		return nil, nil
	}

	if !security.VerifyPassword(in.Password, u.PasswordHash) {
		s.log.Info("login rejected, wrong password", zap.Int64("user_id", u.ID))
		return nil, nil
	}

	token, expiresAt, err := s.tokens.Generate(u.ID, u.Email, u.FullName(), u.AccountNumber, u.Balance.StringFixed(2))
	if err != nil {
		s.log.Error("token generation failed", zap.Int64("user_id", u.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to generate token", err)
	}

	s.log.Info("user logged in", zap.Int64("user_id", u.ID))
	return &AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *user.MapUserToResponse(u),
	}, nil
}

// Register creates a new account and logs it in atomically from the
// caller's point of view, returning a token alongside the created user.
func (s *Service) Register(ctx context.Context, in RegisterRequest) (*AuthResponse, error) {
	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewAlreadyExistsError("email",
			fmt.Sprintf("User with email %s already exists.", in.Email))
	}

	created, err := s.users.CreateUser(ctx, user.CreateUserRequest{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Password:       in.Password,
		PhoneNumber:    in.PhoneNumber,
		InitialBalance: in.InitialBalance,
	})
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Generate(created.ID, created.Email, created.FullName, created.AccountNumber, created.Balance.StringFixed(2))
	if err != nil {
		s.log.Error("token generation failed after registration", zap.Int64("user_id", created.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to generate token", err)
	}

	s.log.Info("user registered", zap.Int64("user_id", created.ID))
	return &AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *created,
	}, nil
}

// ChangePassword rotates the password of the authenticated user after
// verifying the current one. Reports false when the user is gone or the
// current password does not match.
func (s *Service) ChangePassword(ctx context.Context, userID int64, in ChangePasswordRequest) (bool, error) {
	u, err := s.users.GetUserEntityByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if u == nil {
		return false, nil
	}

	if !security.VerifyPassword(in.CurrentPassword, u.PasswordHash) {
		s.log.Info("password change rejected, wrong current password", zap.Int64("user_id", userID))
		return false, nil
	}

	ok, err := s.users.UpdateUserPassword(ctx, userID, in.NewPassword)
	if err != nil {
		return false, err
	}
	if ok {
		s.log.Info("password changed", zap.Int64("user_id", userID))
	}
	return ok, nil
}

// CurrentUser returns the profile of the authenticated user. Returns nil
// when the user was deleted after the token was issued.
func (s *Service) CurrentUser(ctx context.Context, userID int64) (*user.UserResponse, error) {
	return s.users.GetUserByID(ctx, userID)
}
