package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct{}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.DELETE("/notifications/:id", h.Dismiss)
}

// GetNotifications returns the active toasts, oldest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, store.Notifications())
}

// Dismiss removes a toast before it expires
func (h *NotificationHandler) Dismiss(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	if !store.DismissNotification(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
	}
	return c.NoContent(http.StatusNoContent)
}
