package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"api_pos/internal/catalog"
)

// ErrInsufficientPayment is returned when the tendered amount is below the
// cart total. Nothing is mutated.
var ErrInsufficientPayment = errors.New("insufficient payment")

// ErrEmptyCart is returned when committing a cart with no lines.
var ErrEmptyCart = errors.New("cart is empty")

// ErrStoreClosed is returned when committing while no store session is open.
var ErrStoreClosed = errors.New("store is not open")

// Catalog is the slice of the catalog service the checkout flow needs.
type Catalog interface {
	GetByID(id string) (*catalog.Item, error)
	LookupByBarcode(code string) (*catalog.Item, error)
	AdjustUnitStock(itemID, unitLabel string, delta int) (*catalog.Item, error)
}

// SessionGate reports whether the store is open for trading.
type SessionGate interface {
	IsOpen() bool
}

// Service turns carts into committed transactions.
type Service struct {
	storage Storage
	catalog Catalog
	gate    SessionGate
	logger  *zap.Logger
}

// NewService creates a new Service.
func NewService(storage Storage, cat Catalog, gate SessionGate, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Service{
		storage: storage,
		catalog: cat,
		gate:    gate,
		logger:  logger,
	}
}

// Commit validates the cart, decrements stock line by line, and appends the
// transaction record — in that order, so a reader never observes a
// transaction without its stock effect.
//
// The multi-line decrement is a saga: if any line fails (or the record
// cannot be persisted), every decrement already applied is compensated with
// the inverse adjustment, leaving state as if the commit never started.
// On success the cart is cleared.
func (s *Service) Commit(cart *Cart, payment int, operatorID, note string) (*Transaction, error) {
	if !s.gate.IsOpen() {
		return nil, ErrStoreClosed
	}
	lines := cart.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := 0
	for _, ln := range lines {
		subtotal += ln.Subtotal
	}
	total := subtotal
	if payment < total {
		return nil, ErrInsufficientPayment
	}

	applied := make([]CartLine, 0, len(lines))
	for _, ln := range lines {
		if _, err := s.catalog.AdjustUnitStock(ln.ItemID, ln.UnitLabel, -ln.Quantity); err != nil {
			s.compensate(applied)
			return nil, fmt.Errorf("adjusting stock for %q (%s): %w", ln.Name, ln.UnitLabel, err)
		}
		applied = append(applied, ln)
	}

	tx := &Transaction{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now(),
		Items:      snapshot(lines),
		Subtotal:   subtotal,
		Total:      total,
		Payment:    payment,
		Change:     payment - total,
		Note:       note,
		OperatorID: operatorID,
	}
	if err := s.storage.Append(tx); err != nil {
		s.compensate(applied)
		s.logger.Error("failed to persist transaction", zap.String("transaction_id", tx.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to persist transaction: %w", err)
	}

	cart.Clear()
	s.logger.Info("transaction committed",
		zap.String("transaction_id", tx.ID),
		zap.String("operator_id", operatorID),
		zap.Int("total", tx.Total),
		zap.Int("change", tx.Change),
		zap.Int("lines", len(tx.Items)),
	)
	return tx, nil
}

// compensate re-adds stock for every line already decremented in a failed
// commit. A compensation that itself fails is logged loudly: it means stock
// needs a manual restock correction.
func (s *Service) compensate(applied []CartLine) {
	for _, ln := range applied {
		if _, err := s.catalog.AdjustUnitStock(ln.ItemID, ln.UnitLabel, ln.Quantity); err != nil {
			s.logger.Error("stock compensation failed, manual correction needed",
				zap.String("item_id", ln.ItemID),
				zap.String("unit", ln.UnitLabel),
				zap.Int("qty", ln.Quantity),
				zap.Error(err),
			)
		}
	}
}

// ResolveScan decodes a raw optical payload and resolves it against the
// catalog. The returned unit label is the payload's unit when present,
// otherwise the item's first unit.
func (s *Service) ResolveScan(raw string) (*catalog.Item, string, error) {
	key, err := DecodePayload(raw)
	if err != nil {
		return nil, "", err
	}

	var item *catalog.Item
	if key.ID != "" {
		item, err = s.catalog.GetByID(key.ID)
	} else {
		item, err = s.catalog.LookupByBarcode(key.Barcode)
	}
	if err != nil {
		return nil, "", err
	}

	unitLabel := key.Unit
	if unitLabel == "" {
		unitLabel = item.Units[0].Label
	}
	if _, ok := item.UnitByLabel(unitLabel); !ok {
		return nil, "", fmt.Errorf("%w: %q", catalog.ErrUnknownUnit, unitLabel)
	}
	return item, unitLabel, nil
}

// RunScanFeed consumes raw camera frames and adds each recognized code to
// the cart as a quantity-one line. It is the single writer for the cart
// while running. Unrecognized or unknown payloads are skipped so scanning
// continues; stock-limit rejections are skipped too and left for the
// operator to resolve. Returns when frames is closed or ctx is done.
func (s *Service) RunScanFeed(ctx context.Context, frames <-chan string, cart *Cart) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-frames:
			if !ok {
				return nil
			}
			item, unitLabel, err := s.ResolveScan(raw)
			if err != nil {
				s.logger.Debug("scan skipped", zap.Error(err))
				continue
			}
			if err := cart.AddLine(item, unitLabel, 1); err != nil {
				s.logger.Warn("scan not added to cart",
					zap.String("item_id", item.ID),
					zap.String("unit", unitLabel),
					zap.Error(err),
				)
			}
		}
	}
}

// ListTransactions returns the committed ledger for audit surfaces.
func (s *Service) ListTransactions() ([]*Transaction, error) {
	return s.storage.GetAll()
}

func snapshot(lines []CartLine) []SoldLine {
	out := make([]SoldLine, len(lines))
	for i, ln := range lines {
		out[i] = SoldLine{
			Name:     ln.Name,
			Unit:     ln.UnitLabel,
			Qty:      ln.Quantity,
			Subtotal: ln.Subtotal,
		}
	}
	return out
}
