package main

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bodul/folio/internal/reserve"
	"github.com/bodul/folio/internal/translate"
)

const sessionTTL = 24 * time.Hour

// Session is one visitor: their run through the reserve flow and their language
// settings.
type Session struct {
	ID string

	prefs *translate.Registry

	mu       sync.Mutex
	flow     *reserve.Flow
	lastSeen time.Time
	now      func() time.Time
}

// Apply runs an action and returns the resulting state. The state is returned even
// when the action is refused.
func (s *Session) Apply(a reserve.Action, c reserve.Cell) (reserve.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	err := s.flow.Apply(a, c)
	return s.flow.Snapshot(), err
}

// State returns a snapshot of the session's flow.
func (s *Session) State() reserve.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flow.Snapshot()
}

// Prefs returns the visitor's selected language and installed packs.
func (s *Session) Prefs() *translate.Registry {
	return s.prefs
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store holds visitor sessions in memory.
type Store struct {
	mu        sync.RWMutex
	grid      reserve.Grid
	packDelay time.Duration
	sessions  map[string]*Session
	now       func() time.Time
}

// NewStore creates an empty store whose sessions all use grid. packDelay is the
// simulated language pack download time.
func NewStore(grid reserve.Grid, packDelay time.Duration) *Store {
	return &Store{
		grid:      grid,
		packDelay: packDelay,
		sessions:  make(map[string]*Session),
		now:       time.Now,
	}
}

// Create starts a new session on the home screen. Sessions idle for longer than
// sessionTTL are dropped on the way.
func (s *Store) Create() *Session {
	sess := &Session{
		ID:       uuid.NewString(),
		prefs:    translate.NewRegistry(s.packDelay),
		flow:     reserve.New(s.grid),
		lastSeen: s.now(),
		now:      s.now,
	}

	s.mu.Lock()
	s.prune()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get returns a session by ID, or nil if not found. A found session counts as used.
func (s *Store) Get(id string) *Session {
	s.mu.RLock()
	sess := s.sessions[id]
	s.mu.RUnlock()
	if sess != nil {
		sess.touch()
	}
	return sess
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// prune must be called with s.mu held.
func (s *Store) prune() {
	cutoff := s.now().Add(-sessionTTL)
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
