package storesession

import (
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"api_pos/internal/operator"
)

func newTestManager(t *testing.T) (*Manager, *operator.Directory) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	dir := operator.NewDirectory(operator.NewLocalStorage(), logger)
	if _, err := dir.Bootstrap("owner", "rahasia123"); err != nil {
		t.Fatalf("seeding admin: %v", err)
	}
	return NewManager(NewLocalStorage(), dir, logger), dir
}

func TestOpenClose_FullCycle(t *testing.T) {
	mgr, _ := newTestManager(t)

	if mgr.IsOpen() {
		t.Fatal("store open before any session")
	}

	s, err := mgr.Open("owner", "rahasia123", 100000)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !s.IsOpen() || s.CashStart != 100000 {
		t.Errorf("unexpected session: %+v", s)
	}
	if !mgr.IsOpen() {
		t.Error("IsOpen = false after Open")
	}

	active, err := mgr.Active()
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if active.ID != s.ID {
		t.Errorf("Active returned %s, want %s", active.ID, s.ID)
	}

	cashEnd := 350000
	closed, err := mgr.Close("rahasia123", &cashEnd)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed.ClosedAt == nil || closed.CashEnd == nil || *closed.CashEnd != 350000 {
		t.Errorf("close did not record end state: %+v", closed)
	}
	if mgr.IsOpen() {
		t.Error("IsOpen = true after Close")
	}

	// machine is reusable: a new day may open
	if _, err := mgr.Open("owner", "rahasia123", 50000); err != nil {
		t.Errorf("reopen after close: %v", err)
	}
}

func TestOpen_BadCredentials(t *testing.T) {
	mgr, _ := newTestManager(t)
	if _, err := mgr.Open("owner", "wrong", 0); !errors.Is(err, operator.ErrUnauthorized) {
		t.Errorf("Open = %v, want ErrUnauthorized", err)
	}
	if mgr.IsOpen() {
		t.Error("failed open left a session active")
	}
}

func TestOpen_AlreadyOpen(t *testing.T) {
	mgr, _ := newTestManager(t)
	if _, err := mgr.Open("owner", "rahasia123", 0); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := mgr.Open("owner", "rahasia123", 0); !errors.Is(err, ErrAlreadyOpen) {
		t.Errorf("second Open = %v, want ErrAlreadyOpen", err)
	}
}

func TestClose_NotOpen(t *testing.T) {
	mgr, _ := newTestManager(t)
	if _, err := mgr.Close("rahasia123", nil); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Close = %v, want ErrNotOpen", err)
	}
}

func TestClose_WrongPasswordLeavesSessionOpen(t *testing.T) {
	mgr, dir := newTestManager(t)
	if _, err := dir.AddOperator("kasir1", "pwkasir", operator.RoleKasir, "rahasia123"); err != nil {
		t.Fatalf("AddOperator: %v", err)
	}

	if _, err := mgr.Open("owner", "rahasia123", 0); err != nil {
		t.Fatalf("Open: %v", err)
	}

	// wrong password outright
	if _, err := mgr.Close("wrong", nil); !errors.Is(err, operator.ErrUnauthorized) {
		t.Errorf("Close = %v, want ErrUnauthorized", err)
	}
	// another operator's valid password is still not the signed-in operator's
	if _, err := mgr.Close("pwkasir", nil); !errors.Is(err, operator.ErrUnauthorized) {
		t.Errorf("Close with other operator's password = %v, want ErrUnauthorized", err)
	}

	active, err := mgr.Active()
	if err != nil {
		t.Fatalf("session no longer active after failed close: %v", err)
	}
	if active.ClosedAt != nil {
		t.Error("failed close mutated the session record")
	}
}
