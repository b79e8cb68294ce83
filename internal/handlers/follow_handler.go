package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/moments/backend/internal/models"
)

// ContactHandler handles follows, contact notes, blocks and invites
type ContactHandler struct{}

// NewContactHandler creates a new ContactHandler
func NewContactHandler() *ContactHandler {
	return &ContactHandler{}
}

// RegisterContactRoutes registers contact routes
func (h *ContactHandler) RegisterContactRoutes(g *echo.Group) {
	g.GET("/contacts", h.GetContacts)
	g.POST("/contacts", h.Follow)
	g.PUT("/contacts/:id/note", h.UpdateNote)
	g.POST("/contacts/:id/block", h.Block)
	g.POST("/contacts/:id/invite", h.Invite)
}

// GetContacts lists the viewer's contacts and groups
func (h *ContactHandler) GetContacts(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, store.Contacts())
}

// Follow adds a contact. Following an existing contact returns it unchanged.
func (h *ContactHandler) Follow(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	var req models.FollowRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	contact, err := store.Follow(req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, contact)
}

// UpdateNote sets or clears a contact's display-name override
func (h *ContactHandler) UpdateNote(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	var req models.UpdateContactNoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	contact, err := store.UpdateContactNote(c.Param("id"), req.Note)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, contact)
}

// Block blocks a user and drops them from contacts and the active chat
func (h *ContactHandler) Block(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	if err := store.Block(c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Invite sends an invitation to a contact
func (h *ContactHandler) Invite(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	if err := store.InviteFriend(c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
