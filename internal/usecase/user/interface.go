package user

import (
	"context"

	domain "bank-user-service/internal/domain/user"
)

// Repository defines the interface for user data access operations.
// All "not found" cases are signaled by nil or false results, never by
// errors; callers decide the outcome.
type Repository interface {
	GetAllActive(ctx context.Context) ([]domain.User, error)                           // All active users ordered by ID
	GetByID(ctx context.Context, id int64) (*domain.User, error)                       // Lookup by ID regardless of status
	GetActiveByID(ctx context.Context, id int64) (*domain.User, error)                 // Lookup by ID, active only
	GetActiveByEmail(ctx context.Context, email string) (*domain.User, error)          // Case-insensitive lookup, active only
	Create(ctx context.Context, u *domain.User) (int64, error)                         // Insert, store assigns ID
	Update(ctx context.Context, u *domain.User) (int64, error)                         // Full overwrite, 0 when ID absent
	SoftDelete(ctx context.Context, id int64) (bool, error)                            // Flag flip plus updated_at stamp
	Exists(ctx context.Context, id int64) (bool, error)                                // Active only
	EmailExists(ctx context.Context, email string) (bool, error)                       // Active only, case-insensitive
	AccountNumberExists(ctx context.Context, accountNumber string) (bool, error)       // Any status
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) (bool, error) // Active only
	GetPaginatedActive(ctx context.Context, page, pageSize int64) ([]domain.User, error)
	CountActive(ctx context.Context) (int64, error)
}

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	GetAllUsers(ctx context.Context) ([]UserResponse, error)
	GetUserByID(ctx context.Context, id int64) (*UserResponse, error)
	GetUserByEmail(ctx context.Context, email string) (*UserResponse, error)
	GetUserEntityByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserEntityByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, in CreateUserRequest) (*UserResponse, error)
	UpdateUser(ctx context.Context, id int64, in UpdateUserRequest) (*UserResponse, error)
	UpdateUserPassword(ctx context.Context, id int64, newPassword string) (bool, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetUserSummary(ctx context.Context, id int64) (*UserSummaryResponse, error)
	GetUsersPaginated(ctx context.Context, page, pageSize int64) (*PaginatedUsersResponse, error)
}
