package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrValidation is returned when item or unit data is malformed.
var ErrValidation = errors.New("invalid item data")

// ErrDuplicateBarcode is returned when saving an item whose barcode is
// already used by a different item.
var ErrDuplicateBarcode = errors.New("barcode already in use")

// Service provides catalog management operations on a Storage backend.
type Service struct {
	storage Storage
	logger  *zap.Logger
}

// NewService creates a new Service.
func NewService(storage Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Save creates or updates an item. New items (empty ID) get a generated ID
// and a creation timestamp. The unit list must be non-empty and all prices
// and stocks must be non-negative, otherwise ErrValidation is returned and
// nothing is written.
func (s *Service) Save(item *Item) (*Item, error) {
	if err := validate(item); err != nil {
		return nil, err
	}

	existing, err := s.storage.ReadByBarcode(item.Barcode)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("checking barcode: %w", err)
	}
	if existing != nil && existing.ID != item.ID {
		return nil, ErrDuplicateBarcode
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
		item.CreatedAt = time.Now()
	}

	if err := s.storage.Set(item); err != nil {
		s.logger.Error("failed to save item", zap.String("item_id", item.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	s.logger.Info("item saved",
		zap.String("item_id", item.ID),
		zap.String("barcode", item.Barcode),
		zap.Int("units", len(item.Units)),
	)
	return item, nil
}

// GetByID retrieves an item by ID.
func (s *Service) GetByID(id string) (*Item, error) {
	return s.storage.Read(id)
}

// LookupByBarcode retrieves an item by its scannable barcode.
func (s *Service) LookupByBarcode(code string) (*Item, error) {
	return s.storage.ReadByBarcode(code)
}

// List retrieves all catalog items.
func (s *Service) List() ([]*Item, error) {
	return s.storage.GetAll()
}

// AdjustUnitStock atomically adds delta (possibly negative) to one unit's
// stock, failing with ErrInsufficientStock if the result would be negative.
func (s *Service) AdjustUnitStock(itemID, unitLabel string, delta int) (*Item, error) {
	it, err := s.storage.AdjustUnitStock(itemID, unitLabel, delta)
	if err != nil {
		return nil, err
	}
	s.logger.Info("stock adjusted",
		zap.String("item_id", itemID),
		zap.String("unit", unitLabel),
		zap.Int("delta", delta),
	)
	return it, nil
}

// Restock adds stock to one or more units of an item. Deltas must be
// positive; restock never decreases stock. It is independent of the store
// session state and is not idempotent: repeating a call adds stock again.
func (s *Service) Restock(itemID string, deltas map[string]int) (*Item, error) {
	if len(deltas) == 0 {
		return nil, fmt.Errorf("%w: no units to restock", ErrValidation)
	}
	for label, d := range deltas {
		if d <= 0 {
			return nil, fmt.Errorf("%w: restock delta for %q must be positive", ErrValidation, label)
		}
	}

	// Verify every label exists before touching stock so a typo in one
	// unit cannot leave a half-applied restock.
	it, err := s.storage.Read(itemID)
	if err != nil {
		return nil, err
	}
	for label := range deltas {
		if _, ok := it.UnitByLabel(label); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownUnit, label)
		}
	}

	for label, d := range deltas {
		if it, err = s.storage.AdjustUnitStock(itemID, label, d); err != nil {
			return nil, fmt.Errorf("restocking unit %q: %w", label, err)
		}
	}

	s.logger.Info("item restocked", zap.String("item_id", itemID), zap.Any("deltas", deltas))
	return it, nil
}

func validate(item *Item) error {
	if item.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if item.Barcode == "" {
		return fmt.Errorf("%w: barcode is required", ErrValidation)
	}
	if len(item.Units) == 0 {
		return fmt.Errorf("%w: at least one unit is required", ErrValidation)
	}
	seen := make(map[string]bool, len(item.Units))
	for _, u := range item.Units {
		if u.Label == "" {
			return fmt.Errorf("%w: unit label is required", ErrValidation)
		}
		if seen[u.Label] {
			return fmt.Errorf("%w: duplicate unit %q", ErrValidation, u.Label)
		}
		seen[u.Label] = true
		if u.PurchasePrice < 0 || u.SellPrice < 0 {
			return fmt.Errorf("%w: prices for unit %q must be non-negative", ErrValidation, u.Label)
		}
		if u.Stock < 0 {
			return fmt.Errorf("%w: stock for unit %q must be non-negative", ErrValidation, u.Label)
		}
	}
	return nil
}
