package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anonto42/moments/backend/internal/models"
	"github.com/anonto42/moments/backend/internal/scheduler"
	"github.com/anonto42/moments/backend/internal/session"
	"github.com/anonto42/moments/backend/internal/state"
	"github.com/anonto42/moments/backend/validators"
)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	sessions := session.NewManager(state.Options{}, zap.NewNop(),
		session.WithSchedulers(scheduler.NewManual(), func() scheduler.Scheduler { return scheduler.NewManual() }))
	t.Cleanup(sessions.Close)

	e := echo.New()
	e.Validator = validators.NewValidator()
	SetupRoutes(e, Dependencies{Sessions: sessions, JWTSecret: "secret", Logger: zap.NewNop()})
	return e
}

func TestRoutesRegistered(t *testing.T) {
	e := newServer(t)
	have := map[string]bool{}
	for _, r := range e.Routes() {
		have[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /health",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/logout",
		"POST /api/v1/posts",
		"POST /api/v1/posts/:id/reactions",
		"POST /api/v1/posts/:id/comments",
		"GET /api/v1/feed",
		"POST /api/v1/chats/:peer/transfer",
		"POST /api/v1/wallet/purchase",
		"PUT /api/v1/settings/theme",
		"GET /api/v1/trending",
		"GET /api/v1/places",
	} {
		assert.True(t, have[want], want)
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	e := newServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	body, _ := json.Marshal(models.CreatePostRequest{Content: "first moment"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Contains(t, rec.Body.String(), `"sessions":1`)
}
