package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/moments/backend/internal/models"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct{}

// NewPostHandler creates a new PostHandler
func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/report", h.ReportPost)
	g.POST("/posts/:id/forward", h.ForwardPost)
}

// CreatePost moderates, charges and publishes a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := store.CreatePost(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a single visible post
func (h *PostHandler) GetPost(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	post, err := store.Post(c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost removes a post authored by the viewer
func (h *PostHandler) DeletePost(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	if err := store.DeletePost(c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ReportPost hides a post from the session
func (h *PostHandler) ReportPost(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	if err := store.ReportPost(c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ForwardPost shares a post into a conversation as a share card
func (h *PostHandler) ForwardPost(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	var req models.ForwardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := store.ForwardPost(c.Param("id"), req.To)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, msg)
}
