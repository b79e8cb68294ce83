package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/moments/backend/internal/models"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct{}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetCommentsByPostID)
}

// CreateComment moderates and appends a comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := store.AddComment(c.Request().Context(), c.Param("id"), req.Content)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// GetCommentsByPostID lists a post's comments in posting order
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	post, err := store.Post(c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, post.Comments)
}
