package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anonto42/moments/backend/internal/models"
	"github.com/anonto42/moments/backend/internal/repositories"
	"github.com/anonto42/moments/backend/internal/scheduler"
	"github.com/anonto42/moments/backend/internal/state"
)

func newTestManager(t *testing.T, base state.Options) (*Manager, *scheduler.Manual, *[]*scheduler.Manual) {
	t.Helper()
	expiry := scheduler.NewManual()
	var perSession []*scheduler.Manual
	m := NewManager(base, zap.NewNop(),
		WithTTL(time.Hour),
		WithSchedulers(expiry, func() scheduler.Scheduler {
			s := scheduler.NewManual()
			perSession = append(perSession, s)
			return s
		}),
	)
	t.Cleanup(m.Close)
	return m, expiry, &perSession
}

func TestStartLogsIn(t *testing.T) {
	m, _, _ := newTestManager(t, state.Options{})

	store, err := m.Start(context.Background(), StartParams{UserAgent: "Mozilla/5.0 (iPhone)"})
	require.NoError(t, err)
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, 145, store.Viewer().Points)
	assert.Equal(t, "iPhone 15 Pro", store.Viewer().DeviceName)

	got, ok := m.Get(store.SessionID())
	require.True(t, ok)
	assert.Same(t, store, got)
	assert.Equal(t, 1, m.Len())
}

func TestSessionsAreIsolated(t *testing.T) {
	m, _, _ := newTestManager(t, state.Options{})
	a, err := m.Start(context.Background(), StartParams{})
	require.NoError(t, err)
	b, err := m.Start(context.Background(), StartParams{})
	require.NoError(t, err)
	require.NotEqual(t, a.SessionID(), b.SessionID())

	require.NoError(t, a.Block("u2"))
	assert.Empty(t, b.Viewer().BlockedUserIDs)
}

func TestEndClosesStore(t *testing.T) {
	m, _, perSession := newTestManager(t, state.Options{})
	store, err := m.Start(context.Background(), StartParams{})
	require.NoError(t, err)
	require.NoError(t, store.BuyPoints(100))

	assert.True(t, m.End(store.SessionID()))
	assert.False(t, m.End(store.SessionID()))
	_, ok := m.Get(store.SessionID())
	assert.False(t, ok)

	(*perSession)[0].Advance(time.Minute)
	assert.Equal(t, 145, store.Viewer().Points)
}

func TestSessionExpires(t *testing.T) {
	m, expiry, _ := newTestManager(t, state.Options{})
	store, err := m.Start(context.Background(), StartParams{})
	require.NoError(t, err)

	expiry.Advance(59 * time.Minute)
	_, ok := m.Get(store.SessionID())
	assert.True(t, ok)

	expiry.Advance(time.Minute)
	_, ok = m.Get(store.SessionID())
	assert.False(t, ok)
	assert.Zero(t, m.Len())
}

func TestOwnerKeysPreferences(t *testing.T) {
	prefs := repositories.NewMemoryPreferenceRepository()
	m, _, _ := newTestManager(t, state.Options{Preferences: prefs})

	first, err := m.Start(context.Background(), StartParams{OwnerID: "uid-1"})
	require.NoError(t, err)
	first.AcceptTerms(context.Background())

	second, err := m.Start(context.Background(), StartParams{OwnerID: "uid-1"})
	require.NoError(t, err)
	assert.True(t, second.Preferences().TermsAccepted)

	other, err := m.Start(context.Background(), StartParams{OwnerID: "uid-2"})
	require.NoError(t, err)
	assert.False(t, other.Preferences().TermsAccepted)
}

type countingLocations struct {
	*repositories.MemoryLocationCache
	gets, hits int
}

func (c *countingLocations) GetLocation(ctx context.Context, sessionID string) (string, bool, error) {
	loc, ok, err := c.MemoryLocationCache.GetLocation(ctx, sessionID)
	c.gets++
	if ok {
		c.hits++
	}
	return loc, ok, err
}

func TestEndDropsCachedLocation(t *testing.T) {
	cache := &countingLocations{MemoryLocationCache: repositories.NewMemoryLocationCache()}
	m, _, _ := newTestManager(t, state.Options{Locations: cache})

	for i := 0; i < 5; i++ {
		store, err := m.Start(context.Background(), StartParams{})
		require.NoError(t, err)
		assert.Equal(t, 1, cache.Len())

		post, err := store.CreatePost(context.Background(), models.CreatePostRequest{Content: "hello"})
		require.NoError(t, err)
		assert.Equal(t, store.Viewer().Location, post.Location)

		require.True(t, m.End(store.SessionID()))
	}

	assert.Equal(t, 10, cache.gets)
	assert.Equal(t, 5, cache.hits)
	assert.Zero(t, cache.Len())
}
