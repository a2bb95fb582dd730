package di

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"bank-user-service/cmd/api/infrastructure"
	"bank-user-service/internal/adapter/db/postgres"
	ginhandler "bank-user-service/internal/adapter/gin/handler"
	ginmiddleware "bank-user-service/internal/adapter/gin/middleware"
	"bank-user-service/internal/config"
	"bank-user-service/internal/usecase/auth"
	"bank-user-service/internal/usecase/user"
	"bank-user-service/internal/validator"
	redisclient "bank-user-service/pkg/redis"
	"bank-user-service/pkg/security"
)

// Container holds all application dependencies, wired by explicit
// constructor calls.
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	Tokens      *security.TokenManager
	UserUC      user.Usecase
	AuthUC      auth.Usecase
	RateLimiter *ginmiddleware.RateLimiter
	UserHandler *ginhandler.UserHandler
	AuthHandler *ginhandler.AuthHandler
}

// NewContainer creates and initializes all application dependencies.
// Redis is connected only when rate limiting is enabled; everything else
// runs without it.
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var rdb *redisclient.Client
	var rateLimiter *ginmiddleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rdb, err = infrastructure.NewRedisClient(cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		rateLimiter = ginmiddleware.NewRateLimiter(rdb.Client, cfg.RateLimit, l)
	}

	tokens := security.NewTokenManager(
		cfg.JWT.SecretKey,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		time.Duration(cfg.JWT.ExpirationInMinutes)*time.Minute,
	)

	repo := postgres.NewUserRepoPG(db, l)
	userUC := user.New(repo, l)
	authUC := auth.New(userUC, tokens, l)

	createValidator := validator.NewCreateUserValidator(userUC)
	updateValidator := validator.NewUpdateUserValidator(userUC)

	userHandler := ginhandler.NewUserHandler(userUC, createValidator, updateValidator, l)
	authHandler := ginhandler.NewAuthHandler(authUC, createValidator, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		DB:          db,
		RedisClient: rdb,
		Tokens:      tokens,
		UserUC:      userUC,
		AuthUC:      authUC,
		RateLimiter: rateLimiter,
		UserHandler: userHandler,
		AuthHandler: authHandler,
	}, nil
}

// Close closes all resources held by the container.
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
