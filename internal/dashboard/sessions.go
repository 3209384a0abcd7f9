package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"penguinlens/internal/filter"
	"penguinlens/internal/platform/metrics"
	dErrors "penguinlens/pkg/domain-errors"
)

// DefaultSessionIdleTTL evicts sessions that have not been touched for this
// long.
const DefaultSessionIdleTTL = 30 * time.Minute

// Session is one viewer's filter state. Sessions never share a Selection.
type Session struct {
	ID        string
	Selection filter.Selection
	CreatedAt time.Time
	LastSeen  time.Time
}

// SessionStore keeps sessions in memory. Nothing is persisted.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idleTTL  time.Duration
	metrics  *metrics.Metrics
}

// NewSessionStore constructs a store. A non-positive idleTTL uses
// DefaultSessionIdleTTL.
func NewSessionStore(idleTTL time.Duration, m *metrics.Metrics) *SessionStore {
	if idleTTL <= 0 {
		idleTTL = DefaultSessionIdleTTL
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		metrics:  m,
	}
}

// Create registers a new session holding sel.
func (s *SessionStore) Create(sel filter.Selection, now time.Time) Session {
	session := &Session{
		ID:        uuid.NewString(),
		Selection: sel,
		CreatedAt: now,
		LastSeen:  now,
	}
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.recordActive()
	s.mu.Unlock()
	return *session
}

// Get returns the session and marks it as seen. Expired sessions are removed
// and reported as not found.
func (s *SessionStore) Get(id string, now time.Time) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.lookup(id, now)
	if err != nil {
		return Session{}, err
	}
	session.LastSeen = now
	return *session, nil
}

// SetSelection replaces the session's selection.
func (s *SessionStore) SetSelection(id string, sel filter.Selection, now time.Time) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.lookup(id, now)
	if err != nil {
		return Session{}, err
	}
	session.Selection = sel
	session.LastSeen = now
	return *session, nil
}

// Delete removes the session.
func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return errSessionNotFound
	}
	delete(s.sessions, id)
	s.recordActive()
	return nil
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// RemoveExpiredAt evicts every session idle since before now - idleTTL and
// returns how many were removed.
func (s *SessionStore) RemoveExpiredAt(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		if s.expired(session, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.recordActive()
	}
	return removed
}

// StartCleanup evicts idle sessions every interval until ctx is cancelled.
func (s *SessionStore) StartCleanup(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RemoveExpiredAt(time.Now())
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

var errSessionNotFound = dErrors.New(dErrors.CodeNotFound, "session not found")

func (s *SessionStore) lookup(id string, now time.Time) (*Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, errSessionNotFound
	}
	if s.expired(session, now) {
		delete(s.sessions, id)
		s.recordActive()
		return nil, errSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) expired(session *Session, now time.Time) bool {
	return now.Sub(session.LastSeen) > s.idleTTL
}

// recordActive must be called with mu held.
func (s *SessionStore) recordActive() {
	if s.metrics != nil {
		s.metrics.SetSessionsActive(len(s.sessions))
	}
}
