package operator

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when no operator matches the given ID or username.
var ErrNotFound = errors.New("operator not found")

// ErrEmptyID is returned when trying to store an operator with an empty ID.
var ErrEmptyID = errors.New("empty operator ID")

// Storage is the main interface for the operator storage layer.
type Storage interface {
	Set(op *Operator) error
	Read(id string) (*Operator, error)
	ReadByUsername(username string) (*Operator, error)
	GetAll() ([]*Operator, error)
}

// LocalStorage provides an in-memory implementation for storing operators.
type LocalStorage struct {
	mu sync.Mutex
	m  map[string]*Operator
}

// NewLocalStorage instantiates a new LocalStorage for operators with an empty map.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		m: map[string]*Operator{},
	}
}

// Set stores an operator keyed by ID.
// Returns ErrEmptyID if the operator has an empty ID.
func (l *LocalStorage) Set(op *Operator) error {
	if op.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *op
	l.m[op.ID] = &cp
	return nil
}

// Read retrieves an operator by ID. Returns ErrNotFound if absent.
func (l *LocalStorage) Read(id string) (*Operator, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	op, ok := l.m[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *op
	return &cp, nil
}

// ReadByUsername retrieves an operator by username. Returns ErrNotFound if absent.
func (l *LocalStorage) ReadByUsername(username string) (*Operator, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, op := range l.m {
		if op.Username == username {
			cp := *op
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// GetAll retrieves all operators.
func (l *LocalStorage) GetAll() ([]*Operator, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ops := make([]*Operator, 0, len(l.m))
	for _, op := range l.m {
		cp := *op
		ops = append(ops, &cp)
	}
	return ops, nil
}
