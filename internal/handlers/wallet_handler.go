package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/moments/backend/internal/models"
)

// WalletHandler exposes the point balance and its journal
type WalletHandler struct{}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler() *WalletHandler {
	return &WalletHandler{}
}

// RegisterWalletRoutes registers wallet routes
func (h *WalletHandler) RegisterWalletRoutes(g *echo.Group) {
	g.GET("/wallet", h.GetWallet)
	g.POST("/wallet/purchase", h.Purchase)
	g.POST("/wallet/transfer", h.TransferToActiveChat)
}

// GetWallet returns the balance and every recorded balance change
func (h *WalletHandler) GetWallet(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"points":  store.Viewer().Points,
		"journal": store.Journal(),
	})
}

// Purchase starts a simulated top-up; the balance is credited after the
// payment delay.
func (h *WalletHandler) Purchase(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	var req models.PurchaseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := store.BuyPoints(req.Amount); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusAccepted, echo.Map{"status": "processing", "amount": req.Amount})
}

// TransferToActiveChat sends points to whoever the viewer is chatting with
func (h *WalletHandler) TransferToActiveChat(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	var req models.TransferRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := store.Transfer("", req.Amount)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, msg)
}
