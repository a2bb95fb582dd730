// Package validator holds the explicit business-rule validators that run
// after request binding. Field checks are pure; store-backed checks hit
// the user service and are skipped entirely when any field check fails.
package validator

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"bank-user-service/internal/usecase/user"
)

// Result collects human-readable validation errors. A Result with no
// errors is valid.
type Result struct {
	Errors []string
}

// Valid reports whether no errors were recorded.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Add records an error message.
func (r *Result) Add(msg string) {
	r.Errors = append(r.Errors, msg)
}

// Store is the read surface the validators need from the user service.
type Store interface {
	UserExists(ctx context.Context, id int64) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetUserByEmail(ctx context.Context, email string) (*user.UserResponse, error)
}

// CreateUserValidator checks user creation payloads.
type CreateUserValidator struct {
	store Store
}

// NewCreateUserValidator creates a validator backed by the given store.
func NewCreateUserValidator(store Store) *CreateUserValidator {
	return &CreateUserValidator{store: store}
}

// ValidateFields runs the synchronous field checks only.
func (v *CreateUserValidator) ValidateFields(in *user.CreateUserRequest) *Result {
	result := &Result{}

	if in == nil {
		result.Add("Request body cannot be null.")
		return result
	}

	if strings.TrimSpace(in.FirstName) == "" {
		result.Add("FirstName is required and cannot be empty.")
	}
	if strings.TrimSpace(in.LastName) == "" {
		result.Add("LastName is required and cannot be empty.")
	}

	if strings.TrimSpace(in.Email) == "" {
		result.Add("Email is required and cannot be empty.")
	} else if !isValidEmail(in.Email) {
		result.Add("Email format is invalid.")
	}

	if in.InitialBalance.IsNegative() {
		result.Add("Initial balance cannot be negative.")
	}

	if strings.TrimSpace(in.PhoneNumber) != "" && !isValidPhoneNumber(in.PhoneNumber) {
		result.Add("Phone number format is invalid.")
	}

	return result
}

// Validate runs field checks and, when they pass, the store-backed email
// uniqueness check.
func (v *CreateUserValidator) Validate(ctx context.Context, in *user.CreateUserRequest) (*Result, error) {
	result := v.ValidateFields(in)
	if !result.Valid() {
		return result, nil
	}

	exists, err := v.store.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		result.Add(fmt.Sprintf("User with email %s already exists.", in.Email))
	}

	return result, nil
}

// UpdateUserValidator checks partial user update payloads.
type UpdateUserValidator struct {
	store Store
}

// NewUpdateUserValidator creates a validator backed by the given store.
func NewUpdateUserValidator(store Store) *UpdateUserValidator {
	return &UpdateUserValidator{store: store}
}

// ValidateFields runs the synchronous field checks only. Nil fields are
// "do not change" and pass; provided-but-blank names fail.
func (v *UpdateUserValidator) ValidateFields(in *user.UpdateUserRequest) *Result {
	result := &Result{}

	if in == nil {
		result.Add("Request body cannot be null.")
		return result
	}

	if provided(in.Email) && !isValidEmail(*in.Email) {
		result.Add("Email format is invalid.")
	}
	if provided(in.PhoneNumber) && !isValidPhoneNumber(*in.PhoneNumber) {
		result.Add("Phone number format is invalid.")
	}

	if in.FirstName != nil && strings.TrimSpace(*in.FirstName) == "" {
		result.Add("FirstName cannot be empty if provided.")
	}
	if in.LastName != nil && strings.TrimSpace(*in.LastName) == "" {
		result.Add("LastName cannot be empty if provided.")
	}

	return result
}

// Validate runs field checks and, when they pass, verifies that the
// target exists and that a changed email does not belong to a different
// active user. Keeping one's own current email is allowed.
func (v *UpdateUserValidator) Validate(ctx context.Context, id int64, in *user.UpdateUserRequest) (*Result, error) {
	result := v.ValidateFields(in)
	if !result.Valid() {
		return result, nil
	}

	exists, err := v.store.UserExists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		result.Add(fmt.Sprintf("User with ID %d not found.", id))
		return result, nil
	}

	if provided(in.Email) {
		// Padded emails never reach this point; the field check validates
		// the raw value.
		email := *in.Email
		owner, err := v.store.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if owner != nil && owner.ID != id {
			result.Add(fmt.Sprintf("User with email %s already exists.", email))
		}
	}

	return result, nil
}

func provided(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// isValidEmail accepts exactly one plain address with no display name and
// no surrounding whitespace.
func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Name == "" && addr.Address == email
}

// isValidPhoneNumber strips common formatting characters and requires the
// remainder to be 7 to 15 digits.
func isValidPhoneNumber(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "").Replace(phone)
	if len(cleaned) < 7 || len(cleaned) > 15 {
		return false
	}
	for _, c := range cleaned {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
