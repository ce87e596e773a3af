package catalog

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when an item with the given ID or barcode is not found.
var ErrNotFound = errors.New("item not found")

// ErrEmptyID is returned when trying to store an item with an empty ID.
var ErrEmptyID = errors.New("empty item ID")

// ErrUnknownUnit is returned when an item has no unit with the given label.
var ErrUnknownUnit = errors.New("unknown unit")

// ErrInsufficientStock is returned when a stock adjustment would drive a
// unit's stock below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// Storage is the main interface for the catalog storage layer.
//
// AdjustUnitStock is the only stock-mutating primitive: it applies delta to
// the named unit as one atomic read-modify-write and fails with
// ErrInsufficientStock when the result would be negative. Both the sale and
// restock flows route through it so concurrent callers cannot lose updates.
type Storage interface {
	Set(item *Item) error
	Read(id string) (*Item, error)
	ReadByBarcode(code string) (*Item, error)
	AdjustUnitStock(itemID, unitLabel string, delta int) (*Item, error)
	GetAll() ([]*Item, error)
}

// LocalStorage provides an in-memory implementation for storing items.
// A single mutex serializes all access so AdjustUnitStock is atomic with
// respect to concurrent commits and restocks.
type LocalStorage struct {
	mu sync.Mutex
	m  map[string]*Item
}

// NewLocalStorage instantiates a new LocalStorage for items with an empty map.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		m: map[string]*Item{},
	}
}

// Set stores a copy of the item keyed by its ID.
// Returns ErrEmptyID if the item has an empty ID.
func (l *LocalStorage) Set(item *Item) error {
	if item.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.m[item.ID] = item.clone()
	return nil
}

// Read retrieves an item by ID. Returns ErrNotFound if the item is not found.
func (l *LocalStorage) Read(id string) (*Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	it, ok := l.m[id]
	if !ok {
		return nil, ErrNotFound
	}
	return it.clone(), nil
}

// ReadByBarcode retrieves the item whose barcode matches code.
// Returns ErrNotFound if no item carries the barcode.
func (l *LocalStorage) ReadByBarcode(code string) (*Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, it := range l.m {
		if it.Barcode == code {
			return it.clone(), nil
		}
	}
	return nil, ErrNotFound
}

// AdjustUnitStock atomically adds delta to the stock of one unit.
// Returns the updated item, or ErrNotFound / ErrUnknownUnit /
// ErrInsufficientStock without applying anything.
func (l *LocalStorage) AdjustUnitStock(itemID, unitLabel string, delta int) (*Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	it, ok := l.m[itemID]
	if !ok {
		return nil, ErrNotFound
	}
	for i := range it.Units {
		if it.Units[i].Label != unitLabel {
			continue
		}
		if it.Units[i].Stock+delta < 0 {
			return nil, ErrInsufficientStock
		}
		it.Units[i].Stock += delta
		return it.clone(), nil
	}
	return nil, ErrUnknownUnit
}

// GetAll retrieves all items from the local storage.
func (l *LocalStorage) GetAll() ([]*Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]*Item, 0, len(l.m))
	for _, it := range l.m {
		items = append(items, it.clone())
	}
	return items, nil
}
