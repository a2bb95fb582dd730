package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bank-user-service/internal/adapter/db/postgres"
	"bank-user-service/internal/adapter/gin/handler"
	"bank-user-service/internal/adapter/gin/router"
	"bank-user-service/internal/usecase/auth"
	"bank-user-service/internal/usecase/user"
	"bank-user-service/internal/validator"
	"bank-user-service/pkg/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer wires the whole stack over an in-memory database, the
// same way the DI container does in production.
func newTestServer(t *testing.T) *gin.Engine {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&postgres.UserSchema{}))

	log := zaptest.NewLogger(t)
	tokens := security.NewTokenManager(
		"integration-secret-key-that-is-long-enough!",
		"bank-user-service",
		"bank-user-service-clients",
		time.Hour,
	)

	repo := postgres.NewUserRepoPG(db, log)
	userUC := user.New(repo, log)
	authUC := auth.New(userUC, tokens, log)

	cv := validator.NewCreateUserValidator(userUC)
	uv := validator.NewUpdateUserValidator(userUC)

	userHandler := handler.NewUserHandler(userUC, cv, uv, log)
	authHandler := handler.NewAuthHandler(authUC, cv, log)

	return router.SetupRouter(userHandler, authHandler, tokens, nil, log)
}

func request(r *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), "body: %s", w.Body.String())
	return m
}

// register creates an account and returns its token and user map.
func register(t *testing.T, r *gin.Engine, email string) (string, map[string]any) {
	w := request(r, http.MethodPost, "/v1/auth/register", "", map[string]any{
		"firstName":      "Inte",
		"lastName":       "Gration",
		"email":          email,
		"password":       "password123",
		"initialBalance": "150.00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	u, _ := body["user"].(map[string]any)
	require.NotNil(t, u)
	return token, u
}

func TestRegisterAndLoginFlow(t *testing.T) {
	r := newTestServer(t)

	token, u := register(t, r, "flow@example.com")
	assert.Equal(t, "Inte Gration", u["fullName"])
	assert.Regexp(t, regexp.MustCompile(`^ACC\d{6}$`), u["accountNumber"])
	assert.NotContains(t, u, "passwordHash")

	// Login with the right password.
	w := request(r, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email":    "flow@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Login case-insensitively on the email.
	w = request(r, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email":    "FLOW@EXAMPLE.COM",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Wrong password gets the undifferentiated message.
	w = request(r, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email":    "flow@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password.")

	// The token works on /auth/me.
	w = request(r, http.MethodGet, "/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "flow@example.com")
}

func TestDuplicateEmailIsCaseInsensitive(t *testing.T) {
	r := newTestServer(t)
	register(t, r, "dup@example.com")

	w := request(r, http.MethodPost, "/v1/auth/register", "", map[string]any{
		"firstName": "Second",
		"lastName":  "Try",
		"email":     "DUP@EXAMPLE.COM",
		"password":  "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestAccountNumbersAreUnique(t *testing.T) {
	r := newTestServer(t)

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		_, u := register(t, r, fmt.Sprintf("acct%d@example.com", i))
		acct, _ := u["accountNumber"].(string)
		assert.Regexp(t, regexp.MustCompile(`^ACC\d{6}$`), acct)
		assert.False(t, seen[acct], "account number %s reused", acct)
		seen[acct] = true
	}
}

func TestSelfAccessOnly(t *testing.T) {
	r := newTestServer(t)

	token1, u1 := register(t, r, "one@example.com")
	_, u2 := register(t, r, "two@example.com")

	id1 := int64(u1["id"].(float64))
	id2 := int64(u2["id"].(float64))

	// Own record is readable.
	w := request(r, http.MethodGet, fmt.Sprintf("/v1/users/%d", id1), token1, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Someone else's record is forbidden, even though it exists.
	w = request(r, http.MethodGet, fmt.Sprintf("/v1/users/%d", id2), token1, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Without a token, unauthorized.
	w = request(r, http.MethodGet, fmt.Sprintf("/v1/users/%d", id1), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPartialUpdate(t *testing.T) {
	r := newTestServer(t)
	token, u := register(t, r, "patch@example.com")
	id := int64(u["id"].(float64))
	assert.Nil(t, u["updatedAt"])

	// Change one field; the others keep their values and updatedAt is
	// stamped.
	w := request(r, http.MethodPatch, fmt.Sprintf("/v1/users/%d", id), token,
		map[string]any{"firstName": "Patched"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Patched", body["firstName"])
	assert.Equal(t, "Gration", body["lastName"])
	assert.Equal(t, "Patched Gration", body["fullName"])
	assert.NotNil(t, body["updatedAt"])

	// Whitespace-only values are "do not change".
	w = request(r, http.MethodPatch, fmt.Sprintf("/v1/users/%d", id), token,
		map[string]any{"lastName": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "LastName cannot be empty if provided.")

	// Updating a non-existent user is 404.
	w = request(r, http.MethodPatch, "/v1/users/99999", token,
		map[string]any{"firstName": "Ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User with ID 99999 not found.")
}

func TestUpdateEmailCollision(t *testing.T) {
	r := newTestServer(t)
	token, u := register(t, r, "first@example.com")
	register(t, r, "second@example.com")
	id := int64(u["id"].(float64))

	w := request(r, http.MethodPatch, fmt.Sprintf("/v1/users/%d", id), token,
		map[string]any{"email": "second@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Re-submitting one's own email is not a collision.
	w = request(r, http.MethodPatch, fmt.Sprintf("/v1/users/%d", id), token,
		map[string]any{"email": "first@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteLifecycle(t *testing.T) {
	r := newTestServer(t)
	token, u := register(t, r, "bye@example.com")
	id := int64(u["id"].(float64))

	// HEAD sees the user while active.
	w := request(r, http.MethodHead, fmt.Sprintf("/v1/users/%d", id), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(r, http.MethodDelete, fmt.Sprintf("/v1/users/%d", id), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Second delete reports not found; so does HEAD.
	w = request(r, http.MethodDelete, fmt.Sprintf("/v1/users/%d", id), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(r, http.MethodHead, fmt.Sprintf("/v1/users/%d", id), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The active-only email pre-check passes after soft delete, but the
	// unique index still holds the old row, so re-registering the email
	// surfaces as a store-level conflict.
	w = request(r, http.MethodPost, "/v1/auth/register", "", map[string]any{
		"firstName": "Re",
		"lastName":  "Turn",
		"email":     "bye@example.com",
		"password":  "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// The index is on the normalized email, so a case-shifted variant of
	// the deleted user's email conflicts as well.
	w = request(r, http.MethodPost, "/v1/auth/register", "", map[string]any{
		"firstName": "Re",
		"lastName":  "Turn",
		"email":     "BYE@example.com",
		"password":  "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminCreateWithoutPassword(t *testing.T) {
	r := newTestServer(t)
	token, _ := register(t, r, "admin@example.com")

	w := request(r, http.MethodPost, "/v1/users", token, map[string]any{
		"firstName": "No",
		"lastName":  "Password",
		"email":     "nopass@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// The created user can log in with the shared default password.
	w = request(r, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email":    "nopass@example.com",
		"password": security.DefaultPassword,
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNegativeBalanceRejected(t *testing.T) {
	r := newTestServer(t)
	token, _ := register(t, r, "admin@example.com")

	w := request(r, http.MethodPost, "/v1/users", token, map[string]any{
		"firstName":      "Broke",
		"lastName":       "User",
		"email":          "broke@example.com",
		"initialBalance": "-10.00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Initial balance cannot be negative.")
}

func TestChangePasswordFlow(t *testing.T) {
	r := newTestServer(t)
	token, _ := register(t, r, "rotate@example.com")

	// Wrong current password fails.
	w := request(r, http.MethodPost, "/v1/auth/change-password", token, map[string]any{
		"currentPassword": "not-the-password",
		"newPassword":     "rotated-pass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid current password or user not found.")

	// Right current password succeeds, and only the new one logs in.
	w = request(r, http.MethodPost, "/v1/auth/change-password", token, map[string]any{
		"currentPassword": "password123",
		"newPassword":     "rotated-pass",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(r, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email":    "rotate@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(r, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email":    "rotate@example.com",
		"password": "rotated-pass",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestV2Surface(t *testing.T) {
	r := newTestServer(t)
	token, u := register(t, r, "v2@example.com")
	id := int64(u["id"].(float64))

	// The v2 group shares the core surface.
	w := request(r, http.MethodGet, "/v2/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Summary carries account-age metadata.
	w = request(r, http.MethodGet, fmt.Sprintf("/v2/users/%d/summary", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	meta, _ := body["metadata"].(map[string]any)
	require.NotNil(t, meta)
	assert.Equal(t, "2.0", meta["apiVersion"])
	assert.Equal(t, float64(0), meta["accountAgeDays"])

	// Paginated listing with navigation metadata.
	for i := 0; i < 12; i++ {
		register(t, r, fmt.Sprintf("page%d@example.com", i))
	}
	w = request(r, http.MethodGet, "/v2/users/paginated?page=2&pageSize=5", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	pagination, _ := body["pagination"].(map[string]any)
	require.NotNil(t, pagination)
	assert.Equal(t, float64(2), pagination["currentPage"])
	assert.Equal(t, float64(13), pagination["totalUsers"])
	assert.Equal(t, float64(3), pagination["totalPages"])
	assert.Equal(t, true, pagination["hasNextPage"])
	assert.Equal(t, true, pagination["hasPreviousPage"])

	// The summary endpoint does not exist on v1.
	w = request(r, http.MethodGet, fmt.Sprintf("/v1/users/%d/summary", id), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestServer(t)
	w := request(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
