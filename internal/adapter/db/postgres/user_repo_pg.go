package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "bank-user-service/pkg/errors"

	"bank-user-service/internal/domain/user"
)

// UserRepoPG implements the user Repository interface using GORM.
// The unique indexes on email and account number are the source of truth
// for uniqueness; pre-checks in the service layer are best-effort only.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
// CreatedAt and UpdatedAt are stamped by the service layer, not by GORM.
// EmailNormalized carries the unique index so email uniqueness is
// case-insensitive and spans soft-deleted rows; Email keeps the case the
// caller registered with.
type UserSchema struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	FirstName       string          `gorm:"size:100;not null"`
	LastName        string          `gorm:"size:100;not null"`
	Email           string          `gorm:"size:255;not null"`
	EmailNormalized string          `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash    string          `gorm:"size:255;not null"`
	PhoneNumber     string          `gorm:"size:20"`
	AccountNumber   string          `gorm:"size:20;not null;uniqueIndex"`
	Balance         decimal.Decimal `gorm:"type:decimal(18,2)"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime:false"`
	UpdatedAt       *time.Time      `gorm:"autoUpdateTime:false"`
	IsActive        bool            `gorm:"not null;default:true"`
}

// normalizeEmail produces the canonical form stored in email_normalized.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func toEntity(m *UserSchema) *user.User {
	return &user.User{
		ID:            m.ID,
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		Email:         m.Email,
		PasswordHash:  m.PasswordHash,
		PhoneNumber:   m.PhoneNumber,
		AccountNumber: m.AccountNumber,
		Balance:       m.Balance,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		IsActive:      m.IsActive,
	}
}

func toSchema(u *user.User) UserSchema {
	return UserSchema{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		EmailNormalized: normalizeEmail(u.Email),
		PasswordHash:    u.PasswordHash,
		PhoneNumber:     u.PhoneNumber,
		AccountNumber:   u.AccountNumber,
		Balance:         u.Balance,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
		IsActive:        u.IsActive,
	}
}

// translateDuplicateError maps a driver unique-violation error to a typed
// conflict error naming the offending column. Both the PostgreSQL and the
// SQLite drivers mention the column (or the index derived from it) in the
// error text.
func translateDuplicateError(err error, email string) error {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "duplicate key") && !strings.Contains(msg, "unique constraint") {
		return nil
	}
	if strings.Contains(msg, "account_number") {
		return apperrors.NewAlreadyExistsError("account number", "Account number already exists.")
	}
	if strings.Contains(msg, "email") {
		return apperrors.NewAlreadyExistsError("email", fmt.Sprintf("User with email %s already exists.", email))
	}
	return nil
}

// GetAllActive retrieves all active users ordered by ID.
func (r *UserRepoPG) GetAllActive(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(models))
	for i := range models {
		users[i] = *toEntity(&models[i])
	}
	return users, nil
}

// GetByID retrieves a user by ID regardless of active status.
// Returns nil if no row exists.
func (r *UserRepoPG) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, nil
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toEntity(&model), nil
}

// GetActiveByID retrieves an active user by ID. Returns nil if absent or
// soft-deleted.
func (r *UserRepoPG) GetActiveByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("active user not found", zap.Int64("id", id))
			return nil, nil
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toEntity(&model), nil
}

// GetActiveByEmail retrieves an active user by email, compared
// case-insensitively. Returns nil if absent.
func (r *UserRepoPG) GetActiveByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email_normalized = ? AND is_active = ?", normalizeEmail(email), true).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return toEntity(&model), nil
}

// Create inserts a new user. Unique-constraint violations on email or
// account number are returned as typed conflict errors.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	model := toSchema(u)
	model.ID = 0

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if dup := translateDuplicateError(err, u.Email); dup != nil {
			r.log.Warn("unique constraint violated on insert", zap.Error(err), zap.String("email", u.Email))
			return 0, dup
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// Update overwrites all mutable fields of an existing user. Returns 0 with
// no error when the ID does not exist, so callers decide the outcome.
func (r *UserRepoPG) Update(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	res := r.db.WithContext(ctx).Model(&UserSchema{}).Where("id = ?", u.ID).
		Select("first_name", "last_name", "email", "email_normalized", "phone_number", "balance", "is_active", "updated_at").
		Updates(map[string]interface{}{
			"first_name":       u.FirstName,
			"last_name":        u.LastName,
			"email":            u.Email,
			"email_normalized": normalizeEmail(u.Email),
			"phone_number":     u.PhoneNumber,
			"balance":          u.Balance,
			"is_active":        u.IsActive,
			"updated_at":       u.UpdatedAt,
		})
	if res.Error != nil {
		if dup := translateDuplicateError(res.Error, u.Email); dup != nil {
			r.log.Warn("unique constraint violated on update", zap.Error(res.Error), zap.Int64("id", u.ID))
			return 0, dup
		}
		r.log.Error("failed to update user in db", zap.Error(res.Error), zap.Int64("id", u.ID))
		return 0, fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		r.log.Debug("update target not found", zap.Int64("id", u.ID))
		return 0, nil
	}

	r.log.Info("user updated in db", zap.Int64("id", u.ID))
	return u.ID, nil
}

// SoftDelete marks the user inactive and stamps updated_at. Reports false
// when no row with the given ID exists.
func (r *UserRepoPG) SoftDelete(ctx context.Context, id int64) (bool, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&UserSchema{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": &now,
		})
	if res.Error != nil {
		r.log.Error("failed to soft delete user in db", zap.Error(res.Error), zap.Int64("id", id))
		return false, fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	r.log.Info("user soft deleted in db", zap.Int64("id", id))
	return true, nil
}

// Exists reports whether an active user with the given ID exists.
func (r *UserRepoPG) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).Where("id = ? AND is_active = ?", id, true).Count(&count).Error; err != nil {
		r.log.Error("failed to check user existence", zap.Error(err), zap.Int64("id", id))
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

// EmailExists reports whether an active user with the given email exists,
// compared case-insensitively.
func (r *UserRepoPG) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).Where("email_normalized = ? AND is_active = ?", normalizeEmail(email), true).Count(&count).Error; err != nil {
		r.log.Error("failed to check email existence", zap.Error(err), zap.String("email", email))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

// AccountNumberExists reports whether any row, active or not, carries the
// given account number. Soft-deleted rows keep their numbers reserved.
func (r *UserRepoPG) AccountNumberExists(ctx context.Context, accountNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).Where("account_number = ?", accountNumber).Count(&count).Error; err != nil {
		r.log.Error("failed to check account number existence", zap.Error(err), zap.String("account_number", accountNumber))
		return false, fmt.Errorf("failed to check account number existence: %w", err)
	}
	return count > 0, nil
}

// UpdatePasswordHash replaces the password hash of an active user and
// stamps updated_at. Reports false when no active row matches.
func (r *UserRepoPG) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) (bool, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&UserSchema{}).Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    &now,
		})
	if res.Error != nil {
		r.log.Error("failed to update password hash", zap.Error(res.Error), zap.Int64("id", id))
		return false, fmt.Errorf("failed to update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	r.log.Info("password hash updated", zap.Int64("id", id))
	return true, nil
}

// GetPaginatedActive retrieves a page of active users ordered by ID.
func (r *UserRepoPG) GetPaginatedActive(ctx context.Context, page, pageSize int64) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").
		Offset(int((page - 1) * pageSize)).Limit(int(pageSize)).Find(&models).Error; err != nil {
		r.log.Error("failed to list paginated users from db", zap.Error(err), zap.Int64("page", page), zap.Int64("page_size", pageSize))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(models))
	for i := range models {
		users[i] = *toEntity(&models[i])
	}
	return users, nil
}

// CountActive returns the number of active users.
func (r *UserRepoPG) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).Where("is_active = ?", true).Count(&count).Error; err != nil {
		r.log.Error("failed to count users", zap.Error(err))
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
