// Package session maps session ids to live state stores and expires them.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anonto42/moments/backend/internal/repositories"
	"github.com/anonto42/moments/backend/internal/scheduler"
	"github.com/anonto42/moments/backend/internal/state"
)

const DefaultTTL = 72 * time.Hour

// StartParams describes the client opening a session.
type StartParams struct {
	// OwnerID keys persisted preferences, e.g. a verified Firebase UID.
	OwnerID   string
	UserAgent string
}

// Manager owns every live session.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	base         state.Options
	ttl          time.Duration
	expiry       scheduler.Scheduler
	newScheduler func() scheduler.Scheduler
	logger       *zap.Logger
}

type entry struct {
	store  *state.Store
	expiry scheduler.Handle
}

// Option customises a Manager.
type Option func(*Manager)

// WithTTL sets how long a session lives after login.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithSchedulers replaces the expiry scheduler and the per-session
// scheduler factory.
func WithSchedulers(expiry scheduler.Scheduler, perSession func() scheduler.Scheduler) Option {
	return func(m *Manager) {
		m.expiry = expiry
		m.newScheduler = perSession
	}
}

// NewManager creates a Manager. base holds the dependencies shared by every
// session; its per-session fields are overwritten on Start.
func NewManager(base state.Options, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		sessions:     make(map[string]*entry),
		base:         base,
		ttl:          DefaultTTL,
		expiry:       scheduler.NewTimers(),
		newScheduler: func() scheduler.Scheduler { return scheduler.NewTimers() },
		logger:       logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.base.Logger == nil {
		m.base.Logger = logger
	}
	if m.base.Locations == nil {
		m.base.Locations = repositories.NewMemoryLocationCache()
	}
	return m
}

// Start seeds a new session, logs the viewer in and returns its store.
func (m *Manager) Start(ctx context.Context, p StartParams) (*state.Store, error) {
	id := uuid.NewString()
	opts := m.base
	opts.SessionID = id
	opts.OwnerID = p.OwnerID
	opts.UserAgent = p.UserAgent
	opts.Scheduler = m.newScheduler()

	store := state.New(ctx, opts)
	if _, err := store.Login(); err != nil {
		store.Close()
		return nil, err
	}

	m.mu.Lock()
	m.sessions[id] = &entry{
		store:  store,
		expiry: m.expiry.After(m.ttl, func() { m.expire(id) }),
	}
	m.mu.Unlock()

	m.logger.Info("session started", zap.String("session_id", id), zap.Bool("owner_verified", p.OwnerID != ""))
	return store, nil
}

// Get returns the store of a live session.
func (m *Manager) Get(id string) (*state.Store, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return e.store, true
}

// End closes a session. It reports whether the session was live.
func (m *Manager) End(id string) bool {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return false
	}
	e.expiry.Cancel()
	e.store.Close()
	if err := m.base.Locations.DeleteLocation(context.Background(), id); err != nil {
		m.logger.Warn("drop cached location", zap.String("session_id", id), zap.Error(err))
	}
	m.logger.Info("session ended", zap.String("session_id", id))
	return true
}

func (m *Manager) expire(id string) {
	if m.End(id) {
		m.logger.Info("session expired", zap.String("session_id", id))
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// TTL returns the session lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Close ends every session and stops expiry timers.
func (m *Manager) Close() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	for _, id := range ids {
		m.End(id)
	}
	m.expiry.CancelAll()
}
