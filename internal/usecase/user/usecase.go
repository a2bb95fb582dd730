package user

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "bank-user-service/internal/domain/user"
	apperrors "bank-user-service/pkg/errors"
	"bank-user-service/pkg/security"
)

// Service implements the business logic for user management operations.
// It is the sole caller of the Repository and owns account-number
// generation.
type Service struct {
	repo Repository  // Repository for data access
	log  *zap.Logger // Logger for structured logging
}

var _ Usecase = (*Service)(nil)

// New creates a new instance of Service with the provided repository and
// logger.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log}
}

// GetAllUsers retrieves all active users mapped to the response shape.
func (s *Service) GetAllUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.GetAllActive(ctx)
	if err != nil {
		s.log.Error("failed to list users", zap.Error(err))
		return nil, err
	}

	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = *MapUserToResponse(&users[i])
	}
	return out, nil
}

// GetUserByID retrieves an active user by ID. Returns nil if absent or
// soft-deleted.
func (s *Service) GetUserByID(ctx context.Context, id int64) (*UserResponse, error) {
	u, err := s.repo.GetActiveByID(ctx, id)
	if err != nil {
		s.log.Error("failed to get user", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	return MapUserToResponse(u), nil
}

// GetUserByEmail retrieves an active user by email, case-insensitively.
// Returns nil if absent.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*UserResponse, error) {
	u, err := s.repo.GetActiveByEmail(ctx, email)
	if err != nil {
		s.log.Error("failed to get user by email", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	return MapUserToResponse(u), nil
}

// GetUserEntityByID retrieves the full active user entity, including the
// password hash. For internal callers only; never serialized outward.
func (s *Service) GetUserEntityByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetActiveByID(ctx, id)
}

// GetUserEntityByEmail retrieves the full active user entity by email.
func (s *Service) GetUserEntityByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.GetActiveByEmail(ctx, email)
}

// CreateUser hashes the password, generates a unique account number and
// persists the new user. An omitted password falls back to the shared
// default; the trade-off is documented on security.DefaultPassword.
func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*UserResponse, error) {
	s.log.Info("creating user", zap.String("email", in.Email))

	password := in.Password
	if password == "" {
		password = security.DefaultPassword
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		s.log.Error("failed to hash password", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	u := &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		PhoneNumber:  in.PhoneNumber,
		Balance:      in.InitialBalance,
		CreatedAt:    time.Now().UTC(),
		IsActive:     true,
	}

	// The pre-check is best-effort; the unique index is the source of
	// truth. A concurrent creation that wins the same number surfaces as
	// an account-number conflict on insert, and we resample.
	for {
		accountNumber := generateAccountNumber()

		exists, err := s.repo.AccountNumberExists(ctx, accountNumber)
		if err != nil {
			s.log.Error("failed to check account number", zap.Error(err))
			return nil, err
		}
		if exists {
			s.log.Debug("account number collision on pre-check", zap.String("account_number", accountNumber))
			continue
		}

		u.AccountNumber = accountNumber
		id, err := s.repo.Create(ctx, u)
		if err != nil {
			var conflict *apperrors.AlreadyExistsError
			if errors.As(err, &conflict) && conflict.Resource == "account number" {
				s.log.Warn("account number collision on insert, retrying", zap.String("account_number", accountNumber))
				continue
			}
			return nil, err
		}

		u.ID = id
		break
	}

	s.log.Info("user created", zap.Int64("id", u.ID), zap.String("account_number", u.AccountNumber))
	return MapUserToResponse(u), nil
}

// UpdateUser applies partial updates to an existing user. The target is
// resolved regardless of active status. Returns nil if the ID is absent.
func (s *Service) UpdateUser(ctx context.Context, id int64, in UpdateUserRequest) (*UserResponse, error) {
	s.log.Info("updating user", zap.Int64("id", id))

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}

	if v := stringValue(in.FirstName); v != "" {
		u.FirstName = v
	}
	if v := stringValue(in.LastName); v != "" {
		u.LastName = v
	}
	if v := stringValue(in.Email); v != "" {
		u.Email = v
	}
	if v := stringValue(in.PhoneNumber); v != "" {
		u.PhoneNumber = v
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}

	now := time.Now().UTC()
	u.UpdatedAt = &now

	updatedID, err := s.repo.Update(ctx, u)
	if err != nil {
		s.log.Error("failed to update user", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if updatedID == 0 {
		return nil, nil
	}

	return MapUserToResponse(u), nil
}

// UpdateUserPassword rehashes and persists a new password for an active
// user. Reports false when the user is absent or inactive.
func (s *Service) UpdateUserPassword(ctx context.Context, id int64, newPassword string) (bool, error) {
	hash, err := security.HashPassword(newPassword)
	if err != nil {
		s.log.Error("failed to hash password", zap.Int64("id", id), zap.Error(err))
		return false, apperrors.NewInternalError("failed to hash password", err)
	}

	return s.repo.UpdatePasswordHash(ctx, id, hash)
}

// DeleteUser soft-deletes an active user. Reports false when the user is
// absent or already inactive, so a second delete reads as not found.
func (s *Service) DeleteUser(ctx context.Context, id int64) (bool, error) {
	s.log.Info("deleting user", zap.Int64("id", id))

	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	return s.repo.SoftDelete(ctx, id)
}

// UserExists reports whether an active user with the given ID exists.
func (s *Service) UserExists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// EmailExists reports whether an active user with the given email exists.
func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.repo.EmailExists(ctx, email)
}

// GetUserSummary returns the enhanced version 2.0 user shape with account
// age metadata. Returns nil if the user is absent or inactive.
func (s *Service) GetUserSummary(ctx context.Context, id int64) (*UserSummaryResponse, error) {
	u, err := s.repo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}

	now := time.Now().UTC()
	return &UserSummaryResponse{
		User: *MapUserToResponse(u),
		Metadata: SummaryMetadata{
			AccountAgeDays: int64(now.Sub(u.CreatedAt).Hours() / 24),
			APIVersion:     "2.0",
			LastAccessed:   now,
			Features:       []string{"Enhanced User Data", "Metadata Support", "Account Analytics"},
		},
	}, nil
}

// GetUsersPaginated returns a page of active users with navigation
// metadata. Page and pageSize must already be normalized by the caller.
func (s *Service) GetUsersPaginated(ctx context.Context, page, pageSize int64) (*PaginatedUsersResponse, error) {
	total, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.repo.GetPaginatedActive(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	data := make([]UserResponse, len(users))
	for i := range users {
		data[i] = *MapUserToResponse(&users[i])
	}

	p := domain.NewPagination(total, page, pageSize)
	return &PaginatedUsersResponse{
		Data: data,
		Pagination: PaginationResponse{
			CurrentPage:     p.Page,
			PageSize:        p.PageSize,
			TotalPages:      p.TotalPages,
			TotalUsers:      p.Total,
			HasNextPage:     p.HasNextPage(),
			HasPreviousPage: p.HasPreviousPage(),
		},
		APIVersion: "2.0",
	}, nil
}

// generateAccountNumber samples a candidate account number in the
// "ACC" + 6 digits format.
func generateAccountNumber() string {
	return fmt.Sprintf("ACC%06d", rand.IntN(900000)+100000)
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
