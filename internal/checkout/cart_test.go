package checkout

import (
	"errors"
	"testing"

	"api_pos/internal/catalog"
)

func testItem() *catalog.Item {
	return &catalog.Item{
		ID:      "itm-1",
		Name:    "Beras",
		Barcode: "8991002100016",
		Units: []catalog.Unit{
			{Label: "kg", SellPrice: 12000, Stock: 20},
			{Label: "karung", SellPrice: 290000, Stock: 2},
		},
	}
}

func TestCart_AddLineAndTotal(t *testing.T) {
	c := NewCart()
	it := testItem()

	if err := c.AddLine(it, "kg", 3); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if err := c.AddLine(it, "karung", 1); err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	lines := c.Lines()
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if lines[0].Subtotal != 36000 {
		t.Errorf("kg subtotal = %d, want 36000", lines[0].Subtotal)
	}
	if got := c.Total(); got != 36000+290000 {
		t.Errorf("Total = %d, want %d", got, 36000+290000)
	}
}

func TestCart_AddLineRejectsOverStock(t *testing.T) {
	c := NewCart()
	it := testItem()

	if err := c.AddLine(it, "karung", 3); !errors.Is(err, catalog.ErrInsufficientStock) {
		t.Errorf("AddLine over stock = %v, want ErrInsufficientStock", err)
	}

	// lines already in the cart count against the known stock
	if err := c.AddLine(it, "karung", 2); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if err := c.AddLine(it, "karung", 1); !errors.Is(err, catalog.ErrInsufficientStock) {
		t.Errorf("AddLine past cumulative stock = %v, want ErrInsufficientStock", err)
	}
	if c.Len() != 1 {
		t.Errorf("rejected line was appended, Len = %d", c.Len())
	}
}

func TestCart_AddLineValidation(t *testing.T) {
	c := NewCart()
	it := testItem()

	if err := c.AddLine(it, "kg", 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("zero qty = %v, want ErrInvalidQuantity", err)
	}
	if err := c.AddLine(it, "liter", 1); !errors.Is(err, catalog.ErrUnknownUnit) {
		t.Errorf("unknown unit = %v, want ErrUnknownUnit", err)
	}
}

func TestCart_RemoveLine(t *testing.T) {
	c := NewCart()
	it := testItem()
	c.AddLine(it, "kg", 1)
	c.AddLine(it, "kg", 2)

	if err := c.RemoveLine(5); !errors.Is(err, ErrBadLineIndex) {
		t.Errorf("RemoveLine(5) = %v, want ErrBadLineIndex", err)
	}
	if err := c.RemoveLine(0); err != nil {
		t.Fatalf("RemoveLine: %v", err)
	}
	lines := c.Lines()
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Errorf("unexpected lines after remove: %+v", lines)
	}
}

func TestCart_Clear(t *testing.T) {
	c := NewCart()
	c.AddLine(testItem(), "kg", 1)
	c.Clear()
	if c.Len() != 0 || c.Total() != 0 {
		t.Error("Clear did not empty the cart")
	}
}
