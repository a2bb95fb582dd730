package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bank-user-service/internal/adapter/gin/handler"
	"bank-user-service/internal/adapter/gin/middleware"
	"bank-user-service/pkg/security"
)

// SetupRouter configures and returns a Gin router with all routes and
// middleware. The v1 and v2 groups share the core surface; v2 adds the
// summary and paginated endpoints. A nil rateLimiter disables limiting.
func SetupRouter(
	userHandler *handler.UserHandler,
	authHandler *handler.AuthHandler,
	tokens *security.TokenManager,
	rateLimiter *middleware.RateLimiter,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	if rateLimiter != nil {
		router.Use(rateLimiter.Handler())
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "bank-user-service",
		})
	})

	requireAuth := middleware.RequireAuth(tokens)

	registerCore := func(g *gin.RouterGroup) {
		authGroup := g.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/change-password", requireAuth, authHandler.ChangePassword)
			authGroup.GET("/me", requireAuth, authHandler.Me)
			authGroup.POST("/logout", requireAuth, authHandler.Logout)
		}

		users := g.Group("/users", requireAuth)
		{
			users.GET("", userHandler.GetUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/by-email", userHandler.GetUserByEmail)
			users.GET("/:id", userHandler.GetUser)
			users.PATCH("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
			users.HEAD("/:id", userHandler.UserExists)
		}
	}

	v1 := router.Group("/v1")
	registerCore(v1)

	v2 := router.Group("/v2")
	registerCore(v2)
	{
		users := v2.Group("/users", requireAuth)
		users.GET("/paginated", userHandler.GetUsersPaginated)
		users.GET("/:id/summary", userHandler.GetUserSummary)
	}

	return router
}
