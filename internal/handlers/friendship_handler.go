package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/moments/backend/internal/models"
)

// FriendshipHandler handles friend requests
type FriendshipHandler struct{}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler() *FriendshipHandler {
	return &FriendshipHandler{}
}

// RegisterFriendshipRoutes registers friend request routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friends/requests", h.SendFriendRequest)
	g.GET("/friends/requests", h.GetPendingFriendRequests)
	g.GET("/friends/requests/sent", h.GetSentFriendRequests)
	g.PUT("/friends/requests/:id", h.UpdateFriendRequestStatus)
}

// SendFriendRequest sends a friend request
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	var req models.CreateFriendRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	friendRequest, err := store.SendFriendRequest(req.UserID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, friendRequest)
}

// GetPendingFriendRequests gets pending friend requests addressed to the viewer
func (h *FriendshipHandler) GetPendingFriendRequests(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, store.FriendRequests())
}

// GetSentFriendRequests gets pending friend requests the viewer sent
func (h *FriendshipHandler) GetSentFriendRequests(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, store.SentFriendRequests())
}

// UpdateFriendRequestStatus accepts or rejects a pending friend request
func (h *FriendshipHandler) UpdateFriendRequestStatus(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	var req models.UpdateFriendRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	requestID := c.Param("id")
	if req.Status == models.FriendRequestAccepted {
		contact, err := store.AcceptFriendRequest(requestID)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(http.StatusOK, contact)
	}
	if err := store.RejectFriendRequest(requestID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
