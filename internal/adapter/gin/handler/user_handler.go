package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bank-user-service/internal/adapter/gin/middleware"
	"bank-user-service/internal/usecase/user"
	"bank-user-service/internal/validator"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	uc              user.Usecase
	createValidator *validator.CreateUserValidator
	updateValidator *validator.UpdateUserValidator
	log             *zap.Logger
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(uc user.Usecase, cv *validator.CreateUserValidator, uv *validator.UpdateUserValidator, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:              uc,
		createValidator: cv,
		updateValidator: uv,
		log:             log,
	}
}

// CreateUserRequest is the HTTP body for creating a user. Binding tags
// catch shape errors; the explicit validator covers business rules.
type CreateUserRequest struct {
	FirstName      string          `json:"firstName" binding:"required,max=100"`
	LastName       string          `json:"lastName" binding:"required,max=100"`
	Email          string          `json:"email" binding:"required,max=255"`
	Password       string          `json:"password" binding:"omitempty,min=6,max=100"`
	PhoneNumber    string          `json:"phoneNumber" binding:"omitempty,max=20"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

// UpdateUserRequest is the HTTP body for partially updating a user.
// Absent fields are left unchanged.
type UpdateUserRequest struct {
	FirstName   *string `json:"firstName" binding:"omitempty,max=100"`
	LastName    *string `json:"lastName" binding:"omitempty,max=100"`
	Email       *string `json:"email" binding:"omitempty,max=255"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,max=20"`
	IsActive    *bool   `json:"isActive"`
}

// GetUsers handles GET /users.
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.uc.GetAllUsers(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /users/:id. Callers may only read their own record:
// an ID mismatch is forbidden, distinct from not-authenticated and from
// target-absent.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	callerID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required.",
		})
		return
	}
	if callerID != id {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "You can only access your own user record.",
		})
		return
	}

	resp, err := h.uc.GetUserByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if resp == nil {
		h.notFound(c, id)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetUserByEmail handles GET /users/by-email?email=.
func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	email := c.Query("email")
	if result := validator.ValidateEmailParameter(email); !result.Valid() {
		writeValidationOutcome(c, result)
		return
	}

	resp, err := h.uc.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "User with email " + email + " not found.",
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateUser handles POST /users.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create user request", zap.Error(err))
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

	result, err := h.createValidator.Validate(c.Request.Context(), &in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if !result.Valid() {
		writeValidationOutcome(c, result)
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// UpdateUser handles PATCH /users/:id.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid update user request", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusBadRequest, bindingErrorResponse(err))
		return
	}

	in := user.UpdateUserRequest{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		IsActive:    req.IsActive,
	}

	result, err := h.updateValidator.Validate(c.Request.Context(), id, &in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if !result.Valid() {
		writeValidationOutcome(c, result)
		return
	}

	resp, err := h.uc.UpdateUser(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if resp == nil {
		h.notFound(c, id)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteUser handles DELETE /users/:id. A second delete on an already
// inactive record reports not found.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	deleted, err := h.uc.DeleteUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if !deleted {
		h.notFound(c, id)
		return
	}
	c.Status(http.StatusNoContent)
}

// UserExists handles HEAD /users/:id with an empty body either way.
func (h *UserHandler) UserExists(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	exists, err := h.uc.UserExists(c.Request.Context(), id)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if !exists {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusOK)
}

// GetUserSummary handles GET /users/:id/summary on the v2 surface.
func (h *UserHandler) GetUserSummary(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.uc.GetUserSummary(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if resp == nil {
		h.notFound(c, id)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetUsersPaginated handles GET /users/paginated on the v2 surface.
// Out-of-range page parameters are normalized, not rejected.
func (h *UserHandler) GetUsersPaginated(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("pageSize", "10"), 10, 64)
	page, pageSize = validator.NormalizePagination(page, pageSize)

	resp, err := h.uc.GetUsersPaginated(c.Request.Context(), page, pageSize)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || !validator.ValidateUserID(id).Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "User ID must be a positive integer.",
		})
		return 0, false
	}
	return id, true
}

func (h *UserHandler) notFound(c *gin.Context, id int64) {
	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:   "not_found",
		Message: "User with ID " + strconv.FormatInt(id, 10) + " not found.",
	})
}
