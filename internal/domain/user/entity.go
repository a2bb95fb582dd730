package user

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a bank user account in the system.
type User struct {
	ID            int64           // ID is the unique identifier for the user
	FirstName     string          // FirstName is the user's given name
	LastName      string          // LastName is the user's family name
	Email         string          // Email is the unique login identifier (stored case-preserved)
	PasswordHash  string          // PasswordHash is the bcrypt hash, never serialized outward
	PhoneNumber   string          // PhoneNumber is optional contact info
	AccountNumber string          // AccountNumber is the system-generated "ACC" + 6 digits, immutable
	Balance       decimal.Decimal // Balance is the current account balance, no transactional guarantees
	CreatedAt     time.Time       // CreatedAt is set once at creation
	UpdatedAt     *time.Time      // UpdatedAt is stamped on every mutation, nil until then
	IsActive      bool            // IsActive is false after soft delete
}

// FullName returns the display name derived from first and last name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
