package agent

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"staffdesk/internal/config"
)

// DefaultSessionID names the shared conversation used in single mode.
const DefaultSessionID = "default"

// Session is one conversation: its memory plus a lock that admits one agent
// invocation at a time.
type Session struct {
	ID     string
	Memory *Memory

	sem *semaphore.Weighted

	mu       sync.Mutex
	lastUsed time.Time
}

// Acquire blocks until the session is free or ctx is done.
func (s *Session) Acquire(ctx context.Context) error {
	return s.sem.Acquire(ctx, 1)
}

// Release frees the session for the next invocation.
func (s *Session) Release() {
	s.sem.Release(1)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// SessionConfig configures a SessionStore.
type SessionConfig struct {
	// Mode is config.SessionModeSingle or config.SessionModeKeyed
	Mode         string
	TTL          time.Duration
	MaxTurns     int
	NoteMaxTurns int
	Logger       *slog.Logger
}

// SessionStore owns the live conversations. In single mode every caller
// shares DefaultSessionID; in keyed mode each id gets its own session, and
// sessions idle for longer than the TTL are evicted.
type SessionStore struct {
	cfg    SessionConfig
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty store.
func NewSessionStore(cfg SessionConfig) *SessionStore {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Mode == "" {
		cfg.Mode = config.SessionModeSingle
	}
	return &SessionStore{
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Keyed reports whether sessions are selected by caller id.
func (s *SessionStore) Keyed() bool {
	return s.cfg.Mode == config.SessionModeKeyed
}

func (s *SessionStore) resolve(id string) string {
	if !s.Keyed() || id == "" {
		return DefaultSessionID
	}
	return id
}

// Get returns the session for id, creating it on first use.
func (s *SessionStore) Get(id string) *Session {
	id = s.resolve(id)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{
			ID:     id,
			Memory: NewMemory(s.cfg.MaxTurns, s.cfg.NoteMaxTurns),
			sem:    semaphore.NewWeighted(1),
		}
		s.sessions[id] = sess
		s.logger.Debug("session created", "session_id", id)
	}
	sess.touch(now)
	return sess
}

// Lookup returns the session for id without creating it.
func (s *SessionStore) Lookup(id string) (*Session, bool) {
	id = s.resolve(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Each calls fn for every live session. In single mode the shared session is
// created first so no event is lost before the first conversation.
func (s *SessionStore) Each(fn func(*Session)) {
	if !s.Keyed() {
		fn(s.Get(DefaultSessionID))
		return
	}

	s.mu.Lock()
	live := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		live = append(live, sess)
	}
	s.mu.Unlock()

	for _, sess := range live {
		fn(sess)
	}
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// EvictIdle removes keyed sessions idle for longer than the TTL. Sessions
// with an invocation in flight are kept. Returns the number evicted.
func (s *SessionStore) EvictIdle() int {
	if !s.Keyed() || s.cfg.TTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.cfg.TTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if sess.idleSince().After(cutoff) {
			continue
		}
		if !sess.sem.TryAcquire(1) {
			continue
		}
		delete(s.sessions, id)
		sess.sem.Release(1)
		evicted++
	}
	if evicted > 0 {
		s.logger.Info("evicted idle sessions", "count", evicted, "live", len(s.sessions))
	}
	return evicted
}

// Run evicts idle sessions periodically until ctx is done.
func (s *SessionStore) Run(ctx context.Context) error {
	if !s.Keyed() || s.cfg.TTL <= 0 {
		<-ctx.Done()
		return nil
	}

	interval := s.cfg.TTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.EvictIdle()
		}
	}
}
