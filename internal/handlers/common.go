package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/moments/backend/internal/ledger"
	"github.com/anonto42/moments/backend/internal/middleware"
	"github.com/anonto42/moments/backend/internal/models"
	"github.com/anonto42/moments/backend/internal/state"
)

// getStore returns the session store attached by the JWT middleware.
func getStore(c echo.Context) (*state.Store, error) {
	store, ok := c.Get(middleware.ContextStore).(*state.Store)
	if !ok || store == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return store, nil
}

// bindAndValidate decodes the request body into req and runs its validation tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// toHTTPError maps store errors onto HTTP statuses.
func toHTTPError(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrInsufficientBalance):
		status = http.StatusPaymentRequired
	case errors.Is(err, state.ErrUnsafeContent):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, state.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, state.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, state.ErrDailyLimit):
		status = http.StatusTooManyRequests
	case errors.Is(err, state.ErrAlreadyContact):
		status = http.StatusConflict
	case errors.Is(err, state.ErrNoActiveChat),
		errors.Is(err, state.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidMeta):
		status = http.StatusBadRequest
	case errors.Is(err, state.ErrNotAuthenticated), errors.Is(err, state.ErrClosed):
		status = http.StatusUnauthorized
	}
	return echo.NewHTTPError(status, err.Error())
}
