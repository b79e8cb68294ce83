package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anonto42/moments/backend/internal/middleware"
	"github.com/anonto42/moments/backend/internal/models"
	"github.com/anonto42/moments/backend/internal/moderation"
	"github.com/anonto42/moments/backend/internal/scheduler"
	"github.com/anonto42/moments/backend/internal/state"
	"github.com/anonto42/moments/backend/validators"
)

// keywordGate flags any text containing "spam".
type keywordGate struct {
	moderation.Offline
}

func (keywordGate) Analyze(_ context.Context, text string) moderation.Analysis {
	if strings.Contains(text, "spam") {
		return moderation.Analysis{IsSafe: false, QualityScore: 0, Sentiment: models.SentimentToxic}
	}
	return moderation.Analysis{IsSafe: true, QualityScore: 80, Sentiment: models.SentimentPositive}
}

type testServer struct {
	e     *echo.Echo
	store *state.Store
	sched *scheduler.Manual
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	sched := scheduler.NewManual()
	store := state.New(context.Background(), state.Options{
		SessionID: "s1",
		Gate:      keywordGate{},
		Scheduler: sched,
		Clock:     func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
		Rand:      rand.New(rand.NewSource(1)),
	})
	_, err := store.Login()
	require.NoError(t, err)
	t.Cleanup(store.Close)

	e := echo.New()
	e.Validator = validators.NewValidator()
	api := e.Group("/api/v1", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.ContextStore, store)
			return next(c)
		}
	})
	NewUserHandler().RegisterProfileRoutes(api)
	NewPostHandler().RegisterPostRoutes(api)
	NewReactionHandler().RegisterReactionRoutes(api)
	NewCommentHandler().RegisterCommentRoutes(api)
	NewFeedHandler().RegisterFeedRoutes(api)
	NewContactHandler().RegisterContactRoutes(api)
	NewFriendshipHandler().RegisterFriendshipRoutes(api)
	NewNotificationHandler().RegisterNotificationRoutes(api)
	NewTrendingHandler().RegisterTrendingRoutes(api)
	NewMessageHandler().RegisterMessageRoutes(api)
	NewWalletHandler().RegisterWalletRoutes(api)
	NewSettingsHandler().RegisterSettingsRoutes(api)
	NewMediaHandler(zap.NewNop()).RegisterMediaRoutes(api)

	return &testServer{e: e, store: store, sched: sched}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestNoStoreIsUnauthorized(t *testing.T) {
	e := echo.New()
	NewUserHandler().RegisterProfileRoutes(e.Group("/api/v1"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreatePost(t *testing.T) {
	s := newTestServer(t)
	start := s.store.Viewer().Points

	rec := s.do(t, http.MethodPost, "/posts", models.CreatePostRequest{Content: "hello world"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var post models.Post
	decode(t, rec, &post)
	assert.Equal(t, "hello world", post.Content)
	assert.Equal(t, 80, post.QualityScore)
	assert.Equal(t, start-3+2, s.store.Viewer().Points)

	rec = s.do(t, http.MethodGet, "/posts/"+post.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreatePostErrors(t *testing.T) {
	s := newTestServer(t)
	start := s.store.Viewer().Points

	rec := s.do(t, http.MethodPost, "/posts", models.CreatePostRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/posts", models.CreatePostRequest{Content: "buy spam now"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, start-50, s.store.Viewer().Points)

	rec = s.do(t, http.MethodPost, "/posts", models.CreatePostRequest{Content: strings.Repeat("x", 4000)})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
}

func TestDeleteAndReportPost(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodDelete, "/posts/p1", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/posts/p1/report", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/posts/p1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReactions(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/posts/p1/reactions", models.CreateReactionRequest{Type: models.ReactionLike})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var post models.Post
	decode(t, rec, &post)
	assert.True(t, post.HasLiked)
	likes := post.Likes

	rec = s.do(t, http.MethodPost, "/posts/p1/reactions", models.CreateReactionRequest{Type: models.ReactionLike})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &post)
	assert.Equal(t, likes, post.Likes)

	rec = s.do(t, http.MethodPost, "/posts/p1/reactions", models.CreateReactionRequest{Type: "love"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/posts/missing/reactions", models.CreateReactionRequest{Type: models.ReactionLike})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComments(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/posts/p1/comments", models.CreateCommentRequest{Content: "nice shot"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/posts/p1/comments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var comments []models.Comment
	decode(t, rec, &comments)
	require.NotEmpty(t, comments)
	assert.Equal(t, "nice shot", comments[len(comments)-1].Content)

	rec = s.do(t, http.MethodPost, "/posts/p1/comments", models.CreateCommentRequest{Content: "spam spam"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestFeed(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/feed?filter=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/posts", models.CreatePostRequest{Content: "mine"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPut, "/feed/filter", models.WallFilterRequest{Filter: models.WallMine})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/feed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Filter models.WallFilter `json:"filter"`
		Posts  []models.Post     `json:"posts"`
	}
	decode(t, rec, &body)
	assert.Equal(t, models.WallMine, body.Filter)
	require.Len(t, body.Posts, 1)
	assert.Equal(t, "mine", body.Posts[0].Content)
}

func TestContacts(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/contacts/u3/note", models.UpdateContactNoteRequest{Note: "Gym buddy"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var contact models.Contact
	decode(t, rec, &contact)
	assert.Equal(t, "Gym buddy", contact.DisplayName())

	rec = s.do(t, http.MethodPost, "/contacts", models.FollowRequest{UserID: "u9", Name: "Nine"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/contacts/u9/block", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodPost, "/chats/u9/open", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/contacts", nil)
	var contacts []models.Contact
	decode(t, rec, &contacts)
	for _, c := range contacts {
		assert.NotEqual(t, "u9", c.UserID)
	}
}

func TestFriendRequests(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/friends/requests", nil)
	var pending []models.FriendRequest
	decode(t, rec, &pending)
	require.Len(t, pending, 1)

	rec = s.do(t, http.MethodPut, "/friends/requests/"+pending[0].ID, models.UpdateFriendRequest{Status: models.FriendRequestAccepted})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPut, "/friends/requests/"+pending[0].ID, models.UpdateFriendRequest{Status: models.FriendRequestRejected})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/friends/requests", models.CreateFriendRequest{UserID: "u7"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/friends/requests/sent", nil)
	var sent []models.FriendRequest
	decode(t, rec, &sent)
	assert.Len(t, sent, 1)
}

func TestChatFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/chats/u2/open", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/chats/u2/messages", models.SendMessageRequest{Content: "hey"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var msg models.Message
	decode(t, rec, &msg)
	assert.Equal(t, models.MediaText, msg.Type)

	rec = s.do(t, http.MethodGet, "/chats/state", nil)
	var chatState struct {
		ActiveChat string `json:"active_chat"`
		SparkLevel int    `json:"spark_level"`
	}
	decode(t, rec, &chatState)
	assert.Equal(t, "u2", chatState.ActiveChat)
	assert.Equal(t, 5, chatState.SparkLevel)

	before := s.store.Viewer().Points
	rec = s.do(t, http.MethodPost, "/wallet/transfer", models.TransferRequest{Amount: 10})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, before-10, s.store.Viewer().Points)

	rec = s.do(t, http.MethodPost, "/chats/u2/transfer", models.TransferRequest{Amount: 100000})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	balance := s.store.Viewer().Points
	rec = s.do(t, http.MethodPost, "/chats/u3/transfer", models.TransferRequest{Amount: 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodPost, "/chats/"+s.store.Viewer().ID+"/transfer", models.TransferRequest{Amount: 5})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, balance, s.store.Viewer().Points)

	rec = s.do(t, http.MethodPost, "/chats/u2/dice", nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodDelete, "/chats/active", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodPost, "/wallet/transfer", models.TransferRequest{Amount: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/chats/u2/audio", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	s.sched.Advance(state.DefaultAudioDelay)

	rec = s.do(t, http.MethodGet, "/chats/u2/messages", nil)
	var history []models.Message
	decode(t, rec, &history)
	require.NotEmpty(t, history)
	assert.Equal(t, models.MediaAudio, history[len(history)-1].Type)

	rec = s.do(t, http.MethodPost, "/messages/"+msg.ID+"/forward", models.ForwardRequest{To: "u3"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/posts/p1/forward", models.ForwardRequest{To: "u3"})
	require.Equal(t, http.StatusCreated, rec.Code)
	decode(t, rec, &msg)
	assert.Equal(t, models.MediaShareCard, msg.Type)

	rec = s.do(t, http.MethodGet, "/chats", nil)
	var conversations []models.ConversationSummary
	decode(t, rec, &conversations)
	assert.NotEmpty(t, conversations)
}

func TestWalletPurchase(t *testing.T) {
	s := newTestServer(t)
	before := s.store.Viewer().Points

	rec := s.do(t, http.MethodPost, "/wallet/purchase", models.PurchaseRequest{Amount: 100})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, before, s.store.Viewer().Points)

	s.sched.Advance(state.DefaultPurchaseDelay)

	rec = s.do(t, http.MethodGet, "/wallet", nil)
	var wallet struct {
		Points  int               `json:"points"`
		Journal []json.RawMessage `json:"journal"`
	}
	decode(t, rec, &wallet)
	assert.Equal(t, before+100, wallet.Points)
	assert.NotEmpty(t, wallet.Journal)

	rec = s.do(t, http.MethodGet, "/notifications", nil)
	var notes []models.Notification
	decode(t, rec, &notes)
	require.NotEmpty(t, notes)
	last := notes[len(notes)-1]
	assert.Equal(t, models.SeveritySuccess, last.Severity)

	rec = s.do(t, http.MethodDelete, "/notifications/"+last.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodDelete, "/notifications/"+last.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfile(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/profile", models.UpdateUserRequest{NewsRegion: "JP"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var user models.User
	decode(t, rec, &user)
	assert.Equal(t, "JP", user.NewsRegion)

	rec = s.do(t, http.MethodPut, "/profile", models.UpdateUserRequest{Handle: "no-at"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/profile/verify", models.VerifyIdentityRequest{Method: models.VerifiedByPassport})
	require.Equal(t, http.StatusAccepted, rec.Code)
	s.sched.Advance(state.DefaultVerifyDelay)
	assert.True(t, s.store.Viewer().IsVerified)

	rec = s.do(t, http.MethodPost, "/profile/referral", models.ReferralRequest{ReferrerID: "u1"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSettingsAndTrending(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/settings/theme", models.UpdateThemeRequest{Mode: models.ThemeDark})
	require.Equal(t, http.StatusOK, rec.Code)
	var prefs models.Preferences
	decode(t, rec, &prefs)
	assert.Equal(t, models.ThemeDark, prefs.ThemeMode)

	rec = s.do(t, http.MethodPost, "/settings/terms", nil)
	decode(t, rec, &prefs)
	assert.True(t, prefs.TermsAccepted)

	rec = s.do(t, http.MethodGet, "/trending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var topics []models.TrendingTopic
	decode(t, rec, &topics)
	assert.Len(t, topics, 20)

	rec = s.do(t, http.MethodGet, "/trending?category=tech", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	topics = nil
	decode(t, rec, &topics)
	for _, topic := range topics {
		assert.Equal(t, models.TrendingTech, topic.Category)
	}
}

func TestMedia(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/places", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/places?q=coffee", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var generated moderation.Generated
	decode(t, rec, &generated)
	assert.NotEmpty(t, generated.Text)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "clip.webm")
	require.NoError(t, err)
	_, err = part.Write([]byte("not really audio"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media/transcribe", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &generated)
	assert.NotEmpty(t, generated.Text)

	rec = s.do(t, http.MethodPost, "/media/describe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
