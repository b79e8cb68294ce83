package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/moments/backend/internal/models"
)

// FeedHandler serves the moments wall
type FeedHandler struct{}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler() *FeedHandler {
	return &FeedHandler{}
}

// RegisterFeedRoutes registers feed routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.PUT("/feed/filter", h.SetFilter)
}

// GetFeed returns the composed wall. ?filter= overrides the session filter
// for this request only.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	filter := models.WallFilter(c.QueryParam("filter"))
	if filter != "" && !filter.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "filter must be one of news, friends, mine")
	}
	if filter == "" {
		filter = store.WallFilter()
	}
	return c.JSON(http.StatusOK, echo.Map{
		"filter": filter,
		"posts":  store.Feed(filter),
	})
}

// SetFilter switches the session's wall filter
func (h *FeedHandler) SetFilter(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	var req models.WallFilterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := store.SetWallFilter(req.Filter); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"filter": req.Filter})
}
