package checkout

import (
	"errors"
	"fmt"
	"sync"

	"api_pos/internal/catalog"
)

// ErrInvalidQuantity is returned for non-positive line quantities.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// ErrBadLineIndex is returned when removing a line that does not exist.
var ErrBadLineIndex = errors.New("no cart line at index")

// Cart accumulates scanned lines before commit. It is transient: nothing is
// persisted until Commit, and abandoning a cart needs no cleanup. A mutex
// guards the line list because the scan feed may add lines while the
// operator edits the cart.
type Cart struct {
	mu    sync.Mutex
	lines []CartLine
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// AddLine appends a line for qty of the item's given unit, pricing it at the
// unit's current sell price. Quantities beyond the currently known stock are
// rejected eagerly with catalog.ErrInsufficientStock, counting what the cart
// already holds for the same item and unit; commit re-checks against live
// stock, which remains the authoritative gate.
func (c *Cart) AddLine(item *catalog.Item, unitLabel string, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	unit, ok := item.UnitByLabel(unitLabel)
	if !ok {
		return fmt.Errorf("%w: %q", catalog.ErrUnknownUnit, unitLabel)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	inCart := 0
	for _, ln := range c.lines {
		if ln.ItemID == item.ID && ln.UnitLabel == unitLabel {
			inCart += ln.Quantity
		}
	}
	if inCart+qty > unit.Stock {
		return catalog.ErrInsufficientStock
	}

	c.lines = append(c.lines, CartLine{
		ItemID:    item.ID,
		Name:      item.Name,
		UnitLabel: unitLabel,
		Quantity:  qty,
		UnitPrice: unit.SellPrice,
		Subtotal:  qty * unit.SellPrice,
	})
	return nil
}

// RemoveLine deletes the line at index i, preserving order.
func (c *Cart) RemoveLine(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.lines) {
		return fmt.Errorf("%w: %d", ErrBadLineIndex, i)
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return nil
}

// Lines returns a copy of the current lines in scan order.
func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total is the sum of line subtotals, recomputed on every call.
func (c *Cart) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, ln := range c.lines {
		total += ln.Subtotal
	}
	return total
}

// Len reports the number of lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Clear discards all lines.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}
