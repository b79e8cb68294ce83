package router

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anonto42/moments/backend/internal/handlers"
	"github.com/anonto42/moments/backend/internal/middleware"
	"github.com/anonto42/moments/backend/internal/models"
	"github.com/anonto42/moments/backend/internal/session"
	"github.com/anonto42/moments/backend/pkg/firebase"
)

// Dependencies are the shared services the routes are wired to.
type Dependencies struct {
	Sessions  *session.Manager
	JWTSecret string
	// Firebase verifies optional ID tokens at login. Nil disables it.
	Firebase firebase.TokenVerifier
	Logger   *zap.Logger
}

// AutoMigrate creates the PostgreSQL tables backing persisted preferences.
func AutoMigrate(pgdb *gorm.DB) error {
	if err := pgdb.AutoMigrate(&models.Preference{}); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	return nil
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	logger := deps.Logger

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck(deps.Sessions))
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "moments api"})
	})

	// --- Unprotected routes for authentication ---
	authHandler := handlers.NewAuthHandler(deps.Sessions, deps.JWTSecret, logger)
	authHandler.RegisterAuthRoutes(e.Group("/api/v1/auth"), middleware.FirebaseIdentityMiddleware(deps.Firebase))
	logger.Debug("Auth routes configured", zap.Bool("firebase", deps.Firebase != nil))

	// --- Protected routes (require a live session) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(deps.JWTSecret, deps.Sessions))
	authHandler.RegisterSessionRoutes(api)

	handlers.NewUserHandler().RegisterProfileRoutes(api)
	handlers.NewPostHandler().RegisterPostRoutes(api)
	handlers.NewReactionHandler().RegisterReactionRoutes(api)
	handlers.NewCommentHandler().RegisterCommentRoutes(api)
	handlers.NewFeedHandler().RegisterFeedRoutes(api)
	handlers.NewContactHandler().RegisterContactRoutes(api)
	handlers.NewFriendshipHandler().RegisterFriendshipRoutes(api)
	handlers.NewNotificationHandler().RegisterNotificationRoutes(api)
	handlers.NewTrendingHandler().RegisterTrendingRoutes(api)
	handlers.NewMessageHandler().RegisterMessageRoutes(api)
	handlers.NewWalletHandler().RegisterWalletRoutes(api)
	handlers.NewSettingsHandler().RegisterSettingsRoutes(api)
	handlers.NewMediaHandler(logger).RegisterMediaRoutes(api)

	logger.Info("All routes configured", zap.Int("routes", len(e.Routes())))
}
