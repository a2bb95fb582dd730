package postgres

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bank-user-service/pkg/security"
)

// Seed inserts a handful of development users when the table is empty.
// It is a no-op on an already-populated database.
func Seed(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&UserSchema{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check seed state: %w", err)
	}
	if count > 0 {
		return nil
	}

	seeds := []struct {
		firstName string
		lastName  string
		email     string
		password  string
		phone     string
		balance   string
		createdAt time.Time
	}{
		{"John", "Doe", "john.doe@example.com", "password123", "+1234567890", "1000.00", time.Now().UTC().AddDate(0, 0, -10)},
		{"Jane", "Smith", "jane.smith@example.com", "password123", "+1987654321", "2500.50", time.Now().UTC().AddDate(0, 0, -5)},
		{"Admin", "User", "admin@crudbank.com", "admin123", "+1555000000", "10000.00", time.Now().UTC().AddDate(0, 0, -30)},
	}

	for _, s := range seeds {
		hash, err := security.HashPassword(s.password)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}

		balance, err := decimal.NewFromString(s.balance)
		if err != nil {
			return fmt.Errorf("failed to parse seed balance: %w", err)
		}

		model := UserSchema{
			FirstName:       s.firstName,
			LastName:        s.lastName,
			Email:           s.email,
			EmailNormalized: normalizeEmail(s.email),
			PasswordHash:    hash,
			PhoneNumber:     s.phone,
			AccountNumber:   fmt.Sprintf("ACC%06d", rand.IntN(900000)+100000),
			Balance:         balance,
			CreatedAt:       s.createdAt,
			IsActive:        true,
		}

		if err := db.WithContext(ctx).Create(&model).Error; err != nil {
			return fmt.Errorf("failed to seed user %s: %w", s.email, err)
		}
	}

	log.Info("database seeded with development users", zap.Int("count", len(seeds)))
	return nil
}
