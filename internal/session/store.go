package session

import (
	"errors"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
	"github.com/google/uuid"
)

var ErrNoSession = errors.New("session not found or expired")

type Session struct {
	ID        uuid.UUID
	Identity  models.Identity
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store keeps identities for live sessions in process memory only, so a restart
// logs everyone out.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *Store) Open(identity models.Identity) Session {
	now := s.now()
	sess := Session{
		ID:        uuid.New(),
		Identity:  identity,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return sess
}

func (s *Store) Get(id uuid.UUID) (Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return Session{}, ErrNoSession
	}
	if !s.now().Before(sess.ExpiresAt) {
		s.Close(id)
		return Session{}, ErrNoSession
	}
	return sess, nil
}

// Close ends the session. Closing an unknown session is a no-op.
func (s *Store) Close(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Sweep drops expired sessions and reports how many were removed.
func (s *Store) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartSweeper runs Sweep on every tick until done is closed.
func (s *Store) StartSweeper(interval time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-done:
				return
			}
		}
	}()
}
