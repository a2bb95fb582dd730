package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bank-user-service/pkg/errors"
)

func TestAlreadyExistsError(t *testing.T) {
	err := apperrors.NewAlreadyExistsError("email", "User with email a@b.com already exists.")
	assert.Equal(t, "User with email a@b.com already exists.", err.Error())
	assert.Equal(t, http.StatusConflict, err.HTTPStatus())

	// Without a message the resource name carries the text.
	bare := apperrors.NewAlreadyExistsError("account number", "")
	assert.Equal(t, "account number already exists", bare.Error())
}

func TestInternalError(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := apperrors.NewInternalError("failed to hash password", cause)

	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
	assert.Equal(t, "failed to hash password: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestHTTPStatuserThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create user: %w", apperrors.NewAlreadyExistsError("email", ""))

	var statuser apperrors.HTTPStatuser
	require.ErrorAs(t, wrapped, &statuser)
	assert.Equal(t, http.StatusConflict, statuser.HTTPStatus())
}
