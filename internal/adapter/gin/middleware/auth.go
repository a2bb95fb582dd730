package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bank-user-service/pkg/security"
)

const (
	// ContextUserIDKey is the gin context key holding the authenticated
	// user's ID.
	ContextUserIDKey = "auth_user_id"
	// ContextEmailKey is the gin context key holding the authenticated
	// user's email.
	ContextEmailKey = "auth_email"
)

// RequireAuth validates the bearer token and stores the caller's identity
// on the gin context. Requests without a valid token are rejected with 401.
func RequireAuth(tokens *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authorization header is required.",
			})
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authorization header must use the Bearer scheme.",
			})
			return
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid or expired token.",
			})
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid or expired token.",
			})
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextEmailKey, claims.Email)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's ID from the gin context.
// The boolean is false when the request did not pass RequireAuth.
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
