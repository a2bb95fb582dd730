package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "bank-user-service/internal/domain/user"
	apperrors "bank-user-service/pkg/errors"
)

func newTestRepo(t *testing.T) *UserRepoPG {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&UserSchema{}))
	return NewUserRepoPG(db, zaptest.NewLogger(t))
}

func newUser(email, accountNumber string) *domain.User {
	return &domain.User{
		FirstName:     "Test",
		LastName:      "User",
		Email:         email,
		PasswordHash:  "$2a$10$abcdefghijklmnopqrstuv",
		PhoneNumber:   "+1234567890",
		AccountNumber: accountNumber,
		Balance:       decimal.RequireFromString("100.00"),
		CreatedAt:     time.Now().UTC(),
		IsActive:      true,
	}
}

func mustCreate(t *testing.T, repo *UserRepoPG, u *domain.User) int64 {
	id, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	require.NotZero(t, id)
	return id
}

func TestCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := mustCreate(t, repo, newUser("a@example.com", "ACC000001"))

	got, err := repo.GetActiveByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a@example.com", got.Email)
	assert.True(t, decimal.RequireFromString("100.00").Equal(got.Balance))
	assert.True(t, got.IsActive)
	assert.Nil(t, got.UpdatedAt)

	absent, err := repo.GetActiveByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestEmailCaseInsensitivity(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, newUser("John.Doe@Example.com", "ACC000001"))

	got, err := repo.GetActiveByEmail(ctx, "john.doe@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "John.Doe@Example.com", got.Email)

	exists, err := repo.EmailExists(ctx, "JOHN.DOE@EXAMPLE.COM")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDuplicateEmailConflict(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, newUser("dup@example.com", "ACC000001"))

	_, err := repo.Create(ctx, newUser("dup@example.com", "ACC000002"))
	require.Error(t, err)

	var conflict *apperrors.AlreadyExistsError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Resource)
	assert.Equal(t, "User with email dup@example.com already exists.", conflict.Message)

	// The index is on the normalized email, so a case-shifted duplicate
	// conflicts too.
	_, err = repo.Create(ctx, newUser("DUP@Example.com", "ACC000003"))
	require.Error(t, err)
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Resource)
}

func TestDeletedEmailStaysReservedCaseInsensitively(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := mustCreate(t, repo, newUser("gone@example.com", "ACC000001"))

	deleted, err := repo.SoftDelete(ctx, id)
	require.NoError(t, err)
	require.True(t, deleted)

	// The active-only pre-check no longer sees the email, but the unique
	// index spans soft-deleted rows regardless of case.
	taken, err := repo.EmailExists(ctx, "GONE@example.com")
	require.NoError(t, err)
	assert.False(t, taken)

	_, err = repo.Create(ctx, newUser("GONE@example.com", "ACC000002"))
	require.Error(t, err)

	var conflict *apperrors.AlreadyExistsError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Resource)
	assert.Equal(t, "User with email GONE@example.com already exists.", conflict.Message)
}

func TestDuplicateAccountNumberConflict(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, newUser("a@example.com", "ACC000001"))

	_, err := repo.Create(ctx, newUser("b@example.com", "ACC000001"))
	require.Error(t, err)

	var conflict *apperrors.AlreadyExistsError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "account number", conflict.Resource)
}

func TestSoftDeleteLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := mustCreate(t, repo, newUser("a@example.com", "ACC000001"))

	deleted, err := repo.SoftDelete(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	// Active-only reads no longer see the row.
	got, err := repo.GetActiveByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)

	exists, err := repo.Exists(ctx, id)
	require.NoError(t, err)
	assert.False(t, exists)

	emailTaken, err := repo.EmailExists(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, emailTaken)

	// Status-agnostic reads still do, with the flag flipped and
	// updated_at stamped.
	raw, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, raw)
	assert.False(t, raw.IsActive)
	assert.NotNil(t, raw.UpdatedAt)

	// The account number stays reserved after soft delete.
	reserved, err := repo.AccountNumberExists(ctx, "ACC000001")
	require.NoError(t, err)
	assert.True(t, reserved)

	// Deleting again reports not found at the repo level.
	deleted, err = repo.SoftDelete(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := mustCreate(t, repo, newUser("a@example.com", "ACC000001"))

	u, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	u.FirstName = "Changed"
	now := time.Now().UTC()
	u.UpdatedAt = &now

	updatedID, err := repo.Update(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, id, updatedID)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Changed", got.FirstName)
	assert.NotNil(t, got.UpdatedAt)

	// Password hash is not part of the overwrite set.
	assert.Equal(t, "$2a$10$abcdefghijklmnopqrstuv", got.PasswordHash)

	u.ID = 9999
	updatedID, err = repo.Update(ctx, u)
	require.NoError(t, err)
	assert.Zero(t, updatedID)
}

func TestUpdatePasswordHash(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := mustCreate(t, repo, newUser("a@example.com", "ACC000001"))

	ok, err := repo.UpdatePasswordHash(ctx, id, "$2a$10$newhashnewhashnewhashne")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$newhashnewhashnewhashne", got.PasswordHash)
	assert.NotNil(t, got.UpdatedAt)

	// Inactive users cannot rotate passwords.
	_, err = repo.SoftDelete(ctx, id)
	require.NoError(t, err)
	ok, err = repo.UpdatePasswordHash(ctx, id, "$2a$10$otherhash")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	emails := []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com", "e@x.com"}
	for i, email := range emails {
		mustCreate(t, repo, newUser(email, "ACC00000"+string(rune('1'+i))))
	}
	// Soft-deleted rows are excluded from listings and counts.
	deleted, err := repo.SoftDelete(ctx, 5)
	require.NoError(t, err)
	require.True(t, deleted)

	count, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	page1, err := repo.GetPaginatedActive(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, page1, 3)
	assert.Equal(t, "a@x.com", page1[0].Email)

	page2, err := repo.GetPaginatedActive(ctx, 2, 3)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "d@x.com", page2[0].Email)

	all, err := repo.GetAllActive(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestSeed(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, repo.db, zaptest.NewLogger(t)))

	count, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	admin, err := repo.GetActiveByEmail(ctx, "admin@crudbank.com")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.True(t, decimal.RequireFromString("10000.00").Equal(admin.Balance))
	assert.Regexp(t, `^ACC\d{6}$`, admin.AccountNumber)

	// Seeding twice is a no-op.
	require.NoError(t, Seed(ctx, repo.db, zaptest.NewLogger(t)))
	count, err = repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
