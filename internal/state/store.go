// Package state owns the per-session application state. A Store is the only
// writer of its state: every action takes the store lock, validates against
// the ledger, mutates, and emits toast notifications that expire on their own.
package state

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anonto42/moments/backend/internal/ledger"
	"github.com/anonto42/moments/backend/internal/metrics"
	"github.com/anonto42/moments/backend/internal/models"
	"github.com/anonto42/moments/backend/internal/moderation"
	"github.com/anonto42/moments/backend/internal/repositories"
	"github.com/anonto42/moments/backend/internal/scheduler"
	"github.com/anonto42/moments/backend/internal/seed"
)

const (
	DefaultNoticeTTL     = 4 * time.Second
	DefaultPurchaseDelay = time.Second
	DefaultVerifyDelay   = 1500 * time.Millisecond
	DefaultAudioDelay    = 200 * time.Millisecond
)

// Options configures a Store. Nil dependencies are replaced with in-memory
// or offline implementations.
type Options struct {
	SessionID string
	// OwnerID keys persisted preferences. Defaults to the viewer id.
	OwnerID   string
	UserAgent string

	Gate        moderation.Gate
	Scheduler   scheduler.Scheduler
	Preferences repositories.PreferenceRepository
	Locations   repositories.LocationCache
	Trending    repositories.TrendingSource
	Metrics     metrics.Recorder
	Logger      *zap.Logger

	Clock func() time.Time
	Rand  *rand.Rand

	NoticeTTL     time.Duration
	PurchaseDelay time.Duration
	VerifyDelay   time.Duration
	AudioDelay    time.Duration
}

// Store is the state of one viewer session.
type Store struct {
	mu sync.Mutex

	sessionID string
	ownerID   string

	gate    moderation.Gate
	sched   scheduler.Scheduler
	prefs     repositories.PreferenceRepository
	locations repositories.LocationCache
	metrics   metrics.Recorder
	logger  *zap.Logger
	now     func() time.Time
	rnd     *rand.Rand

	noticeTTL     time.Duration
	purchaseDelay time.Duration
	verifyDelay   time.Duration
	audioDelay    time.Duration

	authenticated bool
	bonusApplied  bool
	closed        bool

	user       models.User
	journal    ledger.Journal
	posts      []models.Post
	wallFilter models.WallFilter
	contacts   []models.Contact
	requests   []models.FriendRequest
	outgoing   []models.FriendRequest
	topics     []models.TrendingTopic

	conversations map[models.ConversationKey][]models.Message
	messageIndex  map[string]models.ConversationKey
	hidden        map[string]bool
	activeChat    string
	sparkLevel    int
	background    string

	notices      []models.Notification
	noticeTimers map[string]scheduler.Handle

	preferences models.Preferences
}

// New seeds a Store for a fresh session. Failing backing services are
// logged and never fail construction.
func New(ctx context.Context, opts Options) *Store {
	s := &Store{
		sessionID:     opts.SessionID,
		ownerID:       opts.OwnerID,
		gate:          opts.Gate,
		sched:         opts.Scheduler,
		prefs:         opts.Preferences,
		metrics:       opts.Metrics,
		logger:        opts.Logger,
		now:           opts.Clock,
		rnd:           opts.Rand,
		noticeTTL:     orDefault(opts.NoticeTTL, DefaultNoticeTTL),
		purchaseDelay: orDefault(opts.PurchaseDelay, DefaultPurchaseDelay),
		verifyDelay:   orDefault(opts.VerifyDelay, DefaultVerifyDelay),
		audioDelay:    orDefault(opts.AudioDelay, DefaultAudioDelay),
		wallFilter:    models.WallNews,
		conversations: make(map[models.ConversationKey][]models.Message),
		messageIndex:  make(map[string]models.ConversationKey),
		hidden:        make(map[string]bool),
		noticeTimers:  make(map[string]scheduler.Handle),
	}
	if s.gate == nil {
		s.gate = moderation.Offline{}
	}
	if s.sched == nil {
		s.sched = scheduler.NewTimers()
	}
	if s.prefs == nil {
		s.prefs = repositories.NewMemoryPreferenceRepository()
	}
	if s.metrics == nil {
		s.metrics = metrics.Nop{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.sessionID == "" {
		s.sessionID = uuid.NewString()
	}
	if s.ownerID == "" {
		s.ownerID = seed.ViewerID
	}
	s.logger = s.logger.With(zap.String("session_id", s.sessionID))

	s.locations = opts.Locations
	if s.locations == nil {
		s.locations = repositories.NewMemoryLocationCache()
	}
	trending := opts.Trending
	if trending == nil {
		trending = repositories.NewGeneratedTrendingSource(s.rnd)
	}

	now := s.now()
	s.user = seed.Viewer(s.detectLocation(ctx), seed.DeviceName(opts.UserAgent), seed.NetworkType(s.rnd))
	s.posts = append(seed.Posts(now), seed.RegionalNews(now, s.rnd)...)
	s.contacts = seed.Contacts()
	s.requests = seed.FriendRequests(now)
	for _, m := range seed.Messages(now) {
		s.appendMessageLocked(m)
	}

	topics, err := trending.GetTrendingTopics(ctx)
	if err != nil || len(topics) == 0 {
		if err != nil {
			s.logger.Warn("trending source unavailable, generating topics", zap.Error(err))
		}
		topics = seed.TrendingTopics(s.rnd)
	}
	s.topics = topics

	prefs, err := s.prefs.GetPreferences(ctx, s.ownerID)
	if err != nil {
		s.logger.Warn("failed to load preferences", zap.Error(err))
		prefs = repositories.DecodePreferences(nil)
	}
	s.preferences = prefs
	return s
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// detectLocation returns the session's location from the cache, detecting
// and caching it on a miss. It touches only immutable fields and may run
// without the lock.
func (s *Store) detectLocation(ctx context.Context) string {
	loc, ok, err := s.locations.GetLocation(ctx, s.sessionID)
	if err != nil {
		s.logger.Warn("location cache read failed", zap.Error(err))
	}
	if ok && loc != "" {
		return loc
	}
	loc = seed.DetectLocation(s.now())
	if err := s.locations.SetLocation(ctx, s.sessionID, loc); err != nil {
		s.logger.Warn("location cache write failed", zap.Error(err))
	}
	return loc
}

// SessionID returns the id the store was created for.
func (s *Store) SessionID() string { return s.sessionID }

// Close cancels every pending scheduled callback. The store rejects further
// actions with ErrClosed.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.noticeTimers = make(map[string]scheduler.Handle)
	s.mu.Unlock()
	s.sched.CancelAll()
}

// Login authenticates the session and applies the login bonus once.
func (s *Store) Login() (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return models.User{}, ErrClosed
	}
	s.authenticated = true
	now := s.now()
	s.user.LastLogin = &now
	if !s.bonusApplied {
		s.bonusApplied = true
		s.adjustLocked(ledger.ReasonLoginBonus, ledger.LoginBonus, "")
	}
	return s.user.Clone(), nil
}

// Logout drops authentication. State is kept until the session ends.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Viewer returns a copy of the session's user.
func (s *Store) Viewer() models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone()
}

// Journal returns every balance change applied in this session.
func (s *Store) Journal() []ledger.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.journal.Entries()
}

// guardLocked rejects actions on closed or unauthenticated sessions.
func (s *Store) guardLocked(action string) error {
	if s.closed {
		return ErrClosed
	}
	if !s.authenticated {
		return s.rejectLocked(action, ErrNotAuthenticated, "Please log in first.")
	}
	return nil
}

// adjustLocked moves the balance by delta, clamping debits at zero, and
// records the effective change.
func (s *Store) adjustLocked(reason ledger.Reason, delta int, ref string) ledger.Entry {
	before := s.user.Points
	after := before
	switch {
	case delta < 0:
		after = ledger.Debit(before, -delta)
	case delta > 0:
		after = ledger.Credit(before, delta)
	}
	s.user.Points = after
	e := s.journal.Record(reason, before, after, s.now(), ref)
	s.metrics.PointsChanged(string(reason), e.Delta)
	return e
}

// rejectLocked emits the error toast for a rejected action and returns err.
func (s *Store) rejectLocked(action string, err error, message string) error {
	s.notifyLocked(models.SeverityError, message)
	s.metrics.Rejected(action, cause(err))
	s.logger.Debug("action rejected", zap.String("action", action), zap.Error(err))
	return err
}

// infoLocked is rejectLocked for outcomes the viewer should not read as a
// failure.
func (s *Store) infoLocked(action string, err error, message string) error {
	s.notifyLocked(models.SeverityInfo, message)
	s.metrics.Rejected(action, cause(err))
	return err
}
