package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "stockledger/internal/errors"
)

// SessionTTL is the fixed validity window of a session. Validation never
// extends it.
const SessionTTL = time.Hour

const handleBytes = 32

// Session is the server-side record behind a handle. UserID and Email are a
// denormalized copy of the user for display, not a source of truth.
type Session struct {
	UserID    uuid.UUID
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// SessionStoreInterface defines the interface for session operations.
type SessionStoreInterface interface {
	Create(userID uuid.UUID, email string) (handle string, session *Session, err error)
	Validate(handle string) (*Session, error)
	Destroy(handle string)
}

// SessionStore keeps active sessions in a process-scoped table keyed by
// unguessable random handles.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
}

// Ensure SessionStore implements SessionStoreInterface
var _ SessionStoreInterface = (*SessionStore)(nil)

// NewSessionStore creates an empty session store with the given TTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
	}
}

// Create allocates a new session bound to the identity and returns its handle.
// Handles come from a cryptographically strong source; they are the sole
// bearer credential for the session's lifetime.
func (s *SessionStore) Create(userID uuid.UUID, email string) (string, *Session, error) {
	handle, err := newHandle()
	if err != nil {
		return "", nil, fmt.Errorf("generate session handle: %w", err)
	}

	now := time.Now()
	session := Session{
		UserID:    userID,
		Email:     email,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[handle] = session
	s.mu.Unlock()

	return handle, &session, nil
}

// Validate returns the session behind a handle, or ErrSessionInvalid if the
// handle is unknown or past its deadline. Expiry is checked on every call;
// a successful validation does not extend the deadline.
func (s *SessionStore) Validate(handle string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[handle]
	s.mu.RUnlock()

	if !ok || time.Now().After(session.ExpiresAt) {
		return nil, apperrors.ErrSessionInvalid
	}
	return &session, nil
}

// Destroy removes a session. Destroying an unknown or already-destroyed
// handle is a no-op.
func (s *SessionStore) Destroy(handle string) {
	s.mu.Lock()
	delete(s.sessions, handle)
	s.mu.Unlock()
}

// Sweep drops expired sessions. Correctness never depends on it; it only
// bounds memory between restarts.
func (s *SessionStore) Sweep() {
	now := time.Now()
	s.mu.Lock()
	for handle, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, handle)
		}
	}
	s.mu.Unlock()
}

func newHandle() (string, error) {
	buf := make([]byte, handleBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
