package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/moments/backend/internal/models"
	"github.com/anonto42/moments/backend/internal/state"
)

const testSecret = "test-secret"

type sessions map[string]*state.Store

func (s sessions) Get(id string) (*state.Store, bool) {
	store, ok := s[id]
	return store, ok
}

func sign(t *testing.T, secret, sid string, exp time.Time) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		SessionID: sid,
		UserID:    "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func runJWT(t *testing.T, header string, lookup SessionLookup) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := JWTAuthMiddleware(testSecret, lookup)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, c, err
}

func statusOf(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}

func TestJWTAuthMiddleware(t *testing.T) {
	store := state.New(context.Background(), state.Options{SessionID: "s1"})
	t.Cleanup(store.Close)
	lookup := sessions{"s1": store}
	future := time.Now().Add(time.Hour)

	t.Run("valid token attaches store", func(t *testing.T) {
		rec, c, err := runJWT(t, "Bearer "+sign(t, testSecret, "s1", future), lookup)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Same(t, store, c.Get(ContextStore))
		claims, ok := c.Get(ContextUser).(*models.JwtCustomClaims)
		require.True(t, ok)
		assert.Equal(t, "s1", claims.SessionID)
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"bad signature", "Bearer " + sign(t, "other", "s1", future)},
		{"expired", "Bearer " + sign(t, testSecret, "s1", time.Now().Add(-time.Hour))},
		{"unknown session", "Bearer " + sign(t, testSecret, "gone", future)},
		{"no session id", "Bearer " + sign(t, testSecret, "", future)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runJWT(t, tt.header, lookup)
			assert.Equal(t, http.StatusUnauthorized, statusOf(err))
		})
	}
}

type stubVerifier map[string]string

func (v stubVerifier) VerifyIDToken(_ context.Context, token string) (string, error) {
	if uid, ok := v[token]; ok {
		return uid, nil
	}
	return "", errors.New("bad token")
}

func TestFirebaseIdentityMiddleware(t *testing.T) {
	verifier := stubVerifier{"good": "firebase-uid"}

	run := func(header string, v stubVerifier) (echo.Context, error) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		c := e.NewContext(req, httptest.NewRecorder())
		mw := FirebaseIdentityMiddleware(nil)
		if v != nil {
			mw = FirebaseIdentityMiddleware(v)
		}
		return c, mw(func(echo.Context) error { return nil })(c)
	}

	c, err := run("Bearer good", verifier)
	require.NoError(t, err)
	assert.Equal(t, "firebase-uid", c.Get(ContextFirebaseUID))

	c, err = run("", verifier)
	require.NoError(t, err)
	assert.Nil(t, c.Get(ContextFirebaseUID))

	_, err = run("Bearer bad", verifier)
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	c, err = run("Bearer anything", nil)
	require.NoError(t, err)
	assert.Nil(t, c.Get(ContextFirebaseUID))
}
