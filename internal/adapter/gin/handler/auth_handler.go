package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bank-user-service/internal/adapter/gin/middleware"
	"bank-user-service/internal/usecase/auth"
	"bank-user-service/internal/usecase/user"
	"bank-user-service/internal/validator"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	uc              auth.Usecase
	createValidator *validator.CreateUserValidator
	log             *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(uc auth.Usecase, cv *validator.CreateUserValidator, log *zap.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, createValidator: cv, log: log}
}

// LoginRequest is the HTTP body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the HTTP body for self-service registration. The
// password is mandatory here, unlike administrative creation.
type RegisterRequest struct {
	FirstName      string          `json:"firstName" binding:"required,max=100"`
	LastName       string          `json:"lastName" binding:"required,max=100"`
	Email          string          `json:"email" binding:"required,max=255"`
	Password       string          `json:"password" binding:"required,min=6,max=100"`
	PhoneNumber    string          `json:"phoneNumber" binding:"omitempty,max=20"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

// ChangePasswordRequest is the HTTP body for password rotation.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=100"`
}

// Login handles POST /auth/login. Bad credentials get one
// undifferentiated message regardless of the cause.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrorResponse(err))
		return
	}

	resp, err := h.uc.Login(c.Request.Context(), auth.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid email or password.",
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrorResponse(err))
		return
	}

	in := user.CreateUserRequest{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Password:       req.Password,
		PhoneNumber:    req.PhoneNumber,
		InitialBalance: req.InitialBalance,
	}
	if result := h.createValidator.ValidateFields(&in); !result.Valid() {
		writeValidationOutcome(c, result)
		return
	}

	resp, err := h.uc.Register(c.Request.Context(), auth.RegisterRequest{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Password:       req.Password,
		PhoneNumber:    req.PhoneNumber,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ChangePassword handles POST /auth/change-password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	callerID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required.",
		})
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrorResponse(err))
		return
	}

	changed, err := h.uc.ChangePassword(c.Request.Context(), callerID, auth.ChangePasswordRequest{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if !changed {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid current password or user not found.",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully."})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	callerID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required.",
		})
		return
	}

	resp, err := h.uc.CurrentUser(c.Request.Context(), callerID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "User no longer exists.",
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /auth/logout. Tokens are stateless, so this is
// purely advisory to the caller.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out. Discard the token on the client."})
}
