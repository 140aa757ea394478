// Package session holds per-user conversational state: the current dialogue
// stage and the draft item accumulated during registration.
package session

import (
	"sync"
	"time"
)

// Stage is the position of one user's conversation within the dialogue.
type Stage int

const (
	StageIdle Stage = iota
	StageAwaitingAddConfirmation
	StageAwaitingNameConfirmation
	StageAwaitingName
	StageAwaitingLocation
	StageAwaitingDescription
)

// String returns a readable stage name for logging.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAwaitingAddConfirmation:
		return "awaiting_add_confirmation"
	case StageAwaitingNameConfirmation:
		return "awaiting_name_confirmation"
	case StageAwaitingName:
		return "awaiting_name"
	case StageAwaitingLocation:
		return "awaiting_location"
	case StageAwaitingDescription:
		return "awaiting_description"
	}
	return "unknown"
}

// Session is one user's dialogue state. The zero value is an idle session
// with an empty draft.
type Session struct {
	Stage         Stage
	DraftName     string
	DraftLocation string
	UpdatedAt     time.Time
}

// Store keeps sessions keyed by user identity.
type Store interface {
	// Get returns the user's session, or a zero-value idle session for an
	// unknown user.
	Get(userID int64) Session

	// Put stores the user's session.
	Put(userID int64, sess Session)

	// Clear removes the user's session.
	Clear(userID int64)
}

// MemStore is an in-memory Store. A non-zero TTL expires sessions that have
// not been touched for that long back to idle, bounding abandoned dialogues.
type MemStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemStore creates an in-memory session store. ttl of zero disables expiry.
func NewMemStore(ttl time.Duration) *MemStore {
	return &MemStore{
		sessions: make(map[int64]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the user's session, treating an expired one as absent.
func (s *MemStore) Get(userID int64) Session {
	s.mu.RLock()
	sess, ok := s.sessions[userID]
	s.mu.RUnlock()

	if !ok {
		return Session{}
	}
	if s.ttl > 0 && s.now().Sub(sess.UpdatedAt) > s.ttl {
		s.Clear(userID)
		return Session{}
	}
	return sess
}

// Put stores the session, stamping its update time.
func (s *MemStore) Put(userID int64, sess Session) {
	sess.UpdatedAt = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sess
}

// Clear removes the user's session.
func (s *MemStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
