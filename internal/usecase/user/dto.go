package user

import (
	"time"

	"github.com/shopspring/decimal"

	domain "bank-user-service/internal/domain/user"
)

// CreateUserRequest represents the payload for creating a new user.
// Password may be empty for administratively created users, in which case
// a shared default password is hashed instead.
type CreateUserRequest struct {
	FirstName      string
	LastName       string
	Email          string
	Password       string
	PhoneNumber    string
	InitialBalance decimal.Decimal
}

// UpdateUserRequest represents the payload for partially updating a user.
// Nil fields are left unchanged; whitespace-only strings are also treated
// as "do not change".
type UpdateUserRequest struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
	IsActive    *bool
}

// UserResponse is the outward user shape. It never carries the password
// hash.
type UserResponse struct {
	ID            int64           `json:"id"`
	FirstName     string          `json:"firstName"`
	LastName      string          `json:"lastName"`
	FullName      string          `json:"fullName"`
	Email         string          `json:"email"`
	PhoneNumber   string          `json:"phoneNumber,omitempty"`
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     *time.Time      `json:"updatedAt"`
	IsActive      bool            `json:"isActive"`
}

// SummaryMetadata carries the extra fields of the version 2.0 user summary.
type SummaryMetadata struct {
	AccountAgeDays int64     `json:"accountAgeDays"`
	APIVersion     string    `json:"apiVersion"`
	LastAccessed   time.Time `json:"lastAccessed"`
	Features       []string  `json:"features"`
}

// UserSummaryResponse is the enhanced user shape of the version 2.0 API.
type UserSummaryResponse struct {
	User     UserResponse    `json:"user"`
	Metadata SummaryMetadata `json:"metadata"`
}

// PaginationResponse carries page navigation metadata.
type PaginationResponse struct {
	CurrentPage     int64 `json:"currentPage"`
	PageSize        int64 `json:"pageSize"`
	TotalPages      int64 `json:"totalPages"`
	TotalUsers      int64 `json:"totalUsers"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// PaginatedUsersResponse is the paginated listing of the version 2.0 API.
type PaginatedUsersResponse struct {
	Data       []UserResponse     `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
	APIVersion string             `json:"apiVersion"`
}

// MapUserToResponse converts a domain user to the outward response shape,
// stripping the password hash and computing the full name.
func MapUserToResponse(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		FullName:      u.FullName(),
		Email:         u.Email,
		PhoneNumber:   u.PhoneNumber,
		AccountNumber: u.AccountNumber,
		Balance:       u.Balance,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
		IsActive:      u.IsActive,
	}
}
