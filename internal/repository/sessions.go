package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/outreach-api/internal/workflow"
)

type sessionEntry struct {
	session  *workflow.Session
	lastUsed time.Time
}

// SessionStore keeps workflow sessions in memory. Sessions share nothing;
// each owns its caches and generation state.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionEntry
	pipeline *workflow.Pipeline
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(pipeline *workflow.Pipeline, ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*sessionEntry),
		pipeline: pipeline,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a new session at the upload stage
func (s *SessionStore) Create() *workflow.Session {
	id := uuid.New()
	sess := workflow.NewSession(id, s.pipeline)

	s.mu.Lock()
	s.sessions[id] = &sessionEntry{session: sess, lastUsed: s.now()}
	s.mu.Unlock()

	log.Info().Str("session", id.String()).Msg("Session created")
	return sess
}

// Get returns the session and marks it used. Expired sessions are not returned.
func (s *SessionStore) Get(id uuid.UUID) (*workflow.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(entry, now) {
		delete(s.sessions, id)
		return nil, false
	}
	entry.lastUsed = now
	return entry.session, true
}

// Delete removes a session; reports whether it existed
func (s *SessionStore) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Sweep drops every expired session and returns how many were removed
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, entry := range s.sessions {
		if s.expired(entry, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// RunJanitor sweeps expired sessions every interval until ctx is done
func (s *SessionStore) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				log.Info().Int("removed", n).Int("active", s.Len()).Msg("Expired sessions swept")
			}
		}
	}
}

func (s *SessionStore) expired(entry *sessionEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.lastUsed) > s.ttl
}
