package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/moments/backend/internal/models"
)

// UserHandler serves the viewer's profile.
type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// RegisterProfileRoutes registers profile routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.POST("/profile/verify", h.VerifyIdentity)
	g.POST("/profile/referral", h.RegisterReferral)
}

// GetProfile returns the session viewer
func (h *UserHandler) GetProfile(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, store.Viewer())
}

// UpdateProfile applies a partial profile update
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := store.UpdateProfile(req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// VerifyIdentity starts identity verification; it completes asynchronously.
func (h *UserHandler) VerifyIdentity(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	var req models.VerifyIdentityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := store.VerifyIdentity(req.Method); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusAccepted, echo.Map{"status": "verifying", "method": req.Method})
}

// RegisterReferral credits the referral bonus
func (h *UserHandler) RegisterReferral(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	var req models.ReferralRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := store.RegisterReferral(req.ReferrerID); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"points": store.Viewer().Points})
}
