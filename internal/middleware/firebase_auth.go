package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/moments/backend/pkg/firebase"
)

// ContextFirebaseUID holds the verified Firebase UID, when one was presented.
const ContextFirebaseUID = "firebaseUID"

// FirebaseIdentityMiddleware verifies an optional Firebase ID token. Requests
// without a token pass through anonymously; an invalid token is rejected.
// A nil verifier disables the check entirely.
func FirebaseIdentityMiddleware(verifier firebase.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if verifier == nil || c.Request().Header.Get("Authorization") == "" {
				return next(c)
			}

			idToken, err := bearerToken(c)
			if err != nil {
				return err
			}

			uid, err := verifier.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			c.Set(ContextFirebaseUID, uid)
			return next(c)
		}
	}
}
