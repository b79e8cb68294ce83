package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/anonto42/moments/backend/internal/middleware"
	"github.com/anonto42/moments/backend/internal/models"
	"github.com/anonto42/moments/backend/internal/session"
	"github.com/anonto42/moments/backend/internal/state"
)

// Sessions starts and ends session stores.
type Sessions interface {
	Start(ctx context.Context, p session.StartParams) (*state.Store, error)
	End(id string) bool
	TTL() time.Duration
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	sessions  Sessions
	jwtSecret string
	logger    *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(sessions Sessions, jwtSecret string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		sessions:  sessions,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// RegisterAuthRoutes registers the unauthenticated login route. identity
// verifies an optional Firebase token first.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, identity echo.MiddlewareFunc) {
	g.POST("/login", h.Login, identity)
}

// RegisterSessionRoutes registers routes that need a live session.
func (h *AuthHandler) RegisterSessionRoutes(g *echo.Group) {
	g.POST("/auth/logout", h.Logout)
}

// Login seeds a fresh session and returns a JWT bound to it.
func (h *AuthHandler) Login(c echo.Context) error {
	ownerID, _ := c.Get(middleware.ContextFirebaseUID).(string)

	store, err := h.sessions.Start(c.Request().Context(), session.StartParams{
		OwnerID:   ownerID,
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return toHTTPError(err)
	}

	user := store.Viewer()
	expiresAt := time.Now().Add(h.sessions.TTL())
	token, err := h.generateJWT(store.SessionID(), user.ID, expiresAt)
	if err != nil {
		h.sessions.End(store.SessionID())
		h.logger.Error("failed to sign session token", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusCreated, models.LoginResponse{
		Token:     token,
		SessionID: store.SessionID(),
		ExpiresAt: expiresAt,
		User:      user,
	})
}

// Logout signs the viewer out and discards the session.
func (h *AuthHandler) Logout(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	store.Logout()
	h.sessions.End(store.SessionID())
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) generateJWT(sessionID, userID string, expiresAt time.Time) (string, error) {
	claims := &models.JwtCustomClaims{
		SessionID: sessionID,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
