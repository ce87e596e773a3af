package storesession

import (
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when no session with the given ID exists.
var ErrNotFound = errors.New("store session not found")

// ErrAlreadyOpen is returned when opening while another session is active.
var ErrAlreadyOpen = errors.New("a store session is already open")

// ErrNotOpen is returned when no active session exists.
var ErrNotOpen = errors.New("no open store session")

// Storage is the main interface for the session storage layer. The
// at-most-one-active invariant is enforced here, not by callers: Open fails
// with ErrAlreadyOpen as a storage-level uniqueness constraint.
type Storage interface {
	Open(s *StoreSession) error
	Close(id string, closedAt time.Time, cashEnd *int) error
	Active() (*StoreSession, error)
	GetAll() ([]*StoreSession, error)
}

// LocalStorage provides an in-memory implementation for storing sessions.
// The single active session is a dedicated slot, so two concurrent opens
// cannot both succeed.
type LocalStorage struct {
	mu       sync.Mutex
	m        map[string]*StoreSession
	activeID string
}

// NewLocalStorage instantiates a new LocalStorage for sessions.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		m: map[string]*StoreSession{},
	}
}

// Open stores a new active session. Returns ErrAlreadyOpen if one is active.
func (l *LocalStorage) Open(s *StoreSession) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.activeID != "" {
		return ErrAlreadyOpen
	}
	cp := *s
	l.m[s.ID] = &cp
	l.activeID = s.ID
	return nil
}

// Close marks the session closed and releases the active slot.
func (l *LocalStorage) Close(id string, closedAt time.Time, cashEnd *int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.m[id]
	if !ok {
		return ErrNotFound
	}
	s.ClosedAt = &closedAt
	s.CashEnd = cashEnd
	if l.activeID == id {
		l.activeID = ""
	}
	return nil
}

// Active returns the session currently open, or ErrNotOpen.
func (l *LocalStorage) Active() (*StoreSession, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.activeID == "" {
		return nil, ErrNotOpen
	}
	cp := *l.m[l.activeID]
	return &cp, nil
}

// GetAll retrieves every session, open or closed.
func (l *LocalStorage) GetAll() ([]*StoreSession, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	sessions := make([]*StoreSession, 0, len(l.m))
	for _, s := range l.m {
		cp := *s
		sessions = append(sessions, &cp)
	}
	return sessions, nil
}
