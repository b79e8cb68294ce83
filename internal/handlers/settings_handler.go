package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/moments/backend/internal/models"
)

// SettingsHandler handles persisted preferences
type SettingsHandler struct{}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler() *SettingsHandler {
	return &SettingsHandler{}
}

// RegisterSettingsRoutes registers settings routes
func (h *SettingsHandler) RegisterSettingsRoutes(g *echo.Group) {
	g.GET("/settings", h.GetSettings)
	g.PUT("/settings/theme", h.SetTheme)
	g.POST("/settings/terms", h.AcceptTerms)
}

func (h *SettingsHandler) GetSettings(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, store.Preferences())
}

func (h *SettingsHandler) SetTheme(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	var req models.UpdateThemeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, store.SetTheme(c.Request().Context(), req.Mode))
}

func (h *SettingsHandler) AcceptTerms(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, store.AcceptTerms(c.Request().Context()))
}
