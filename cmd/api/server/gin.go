package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"bank-user-service/cmd/api/di"
	ginrouter "bank-user-service/internal/adapter/gin/router"
)

// SetupGinServer creates and configures the Gin REST API server.
func SetupGinServer(container *di.Container, addr string, l *zap.Logger) *http.Server {
	router := ginrouter.SetupRouter(
		container.UserHandler,
		container.AuthHandler,
		container.Tokens,
		container.RateLimiter,
		l,
	)

	l.Info("REST API configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
