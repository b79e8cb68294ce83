package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/moments/backend/internal/models"
)

// TrendingHandler serves the session's trending topics
type TrendingHandler struct{}

// NewTrendingHandler creates a new TrendingHandler
func NewTrendingHandler() *TrendingHandler {
	return &TrendingHandler{}
}

// RegisterTrendingRoutes registers trending routes
func (h *TrendingHandler) RegisterTrendingRoutes(g *echo.Group) {
	g.GET("/trending", h.GetTrending)
}

// GetTrending lists topics, optionally filtered with ?category=
func (h *TrendingHandler) GetTrending(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	category := c.QueryParam("category")
	if category == "" {
		category = models.TrendingAll
	}
	return c.JSON(http.StatusOK, store.Trending(category))
}
