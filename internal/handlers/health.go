package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SessionCounter reports the number of live sessions.
type SessionCounter interface {
	Len() int
}

// HealthCheck reports liveness and the number of live sessions.
func HealthCheck(sessions SessionCounter) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status":   "healthy",
			"service":  "moments-api",
			"sessions": sessions.Len(),
		})
	}
}
