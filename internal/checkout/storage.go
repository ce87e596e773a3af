package checkout

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when a transaction with the given ID is not found.
var ErrNotFound = errors.New("transaction not found")

// ErrEmptyID is returned when trying to store a transaction with an empty ID.
var ErrEmptyID = errors.New("empty transaction ID")

// Storage is the append-only ledger interface for committed transactions.
type Storage interface {
	Append(t *Transaction) error
	Read(id string) (*Transaction, error)
	GetAll() ([]*Transaction, error)
}

// LocalStorage provides an in-memory implementation of the transaction ledger.
type LocalStorage struct {
	mu sync.Mutex
	m  map[string]*Transaction
}

// NewLocalStorage instantiates a new LocalStorage for transactions.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		m: map[string]*Transaction{},
	}
}

// Append stores a committed transaction.
// Returns ErrEmptyID if the transaction has an empty ID.
func (l *LocalStorage) Append(t *Transaction) error {
	if t.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *t
	cp.Items = make([]SoldLine, len(t.Items))
	copy(cp.Items, t.Items)
	l.m[t.ID] = &cp
	return nil
}

// Read retrieves a transaction by ID. Returns ErrNotFound if absent.
func (l *LocalStorage) Read(id string) (*Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, ok := l.m[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// GetAll retrieves all committed transactions.
func (l *LocalStorage) GetAll() ([]*Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	txs := make([]*Transaction, 0, len(l.m))
	for _, t := range l.m {
		cp := *t
		txs = append(txs, &cp)
	}
	return txs, nil
}
