package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	playground "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"bank-user-service/internal/validator"
	apperrors "bank-user-service/pkg/errors"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

// writeError maps a service error to its HTTP status via the typed error
// taxonomy. Everything else becomes an opaque 500.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	var statuser apperrors.HTTPStatuser
	if errors.As(err, &statuser) && statuser.HTTPStatus() != http.StatusInternalServerError {
		status := statuser.HTTPStatus()
		c.JSON(status, ErrorResponse{
			Error:   errorLabel(status),
			Message: err.Error(),
		})
		return
	}

	log.Error("request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred.",
	})
}

func errorLabel(status int) string {
	if status == http.StatusConflict {
		return "already_exists"
	}
	return "internal_error"
}

// writeValidationOutcome routes a failed validation result to a status by
// inspecting the error texts: existence failures map to 404, uniqueness
// conflicts to 409, everything else to 400.
func writeValidationOutcome(c *gin.Context, result *validator.Result) {
	for _, msg := range result.Errors {
		if strings.Contains(msg, "not found") {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: msg,
			})
			return
		}
	}
	for _, msg := range result.Errors {
		if strings.Contains(msg, "already exists") {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "already_exists",
				Message: msg,
			})
			return
		}
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: "Validation failed",
		Details: result.Errors,
	})
}

// bindingErrorResponse shapes request binding failures like validation
// failures, with one detail line per offending field when the binding
// library reports them.
func bindingErrorResponse(err error) ErrorResponse {
	details := []string{err.Error()}

	var fieldErrs playground.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details = make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, fmt.Sprintf("Field %s failed on the %s rule.", fe.Field(), fe.Tag()))
		}
	}

	return ErrorResponse{
		Error:   "validation_error",
		Message: "Invalid request body.",
		Details: details,
	}
}
