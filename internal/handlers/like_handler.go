package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/moments/backend/internal/models"
)

// ReactionHandler handles likes, dislikes and reposts
type ReactionHandler struct{}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler() *ReactionHandler {
	return &ReactionHandler{}
}

// RegisterReactionRoutes registers reaction routes
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.POST("/posts/:id/reactions", h.React)
}

// React applies a reaction once. Repeating a reaction returns the post unchanged.
func (h *ReactionHandler) React(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	var req models.CreateReactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := store.React(c.Param("id"), req.Type)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, post)
}
