package operator

import (
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"
)

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()
	return NewDirectory(NewLocalStorage(), zaptest.NewLogger(t))
}

func TestBootstrapAndAuthenticate(t *testing.T) {
	dir := newTestDirectory(t)

	admin, err := dir.Bootstrap("owner", "rahasia123")
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if admin.Role != RoleAdmin {
		t.Errorf("bootstrap role = %q, want admin", admin.Role)
	}
	if admin.PasswordHash == "rahasia123" {
		t.Fatal("password stored in plaintext")
	}

	got, err := dir.Authenticate("owner", "rahasia123")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != admin.ID {
		t.Errorf("authenticated wrong operator: %s", got.ID)
	}

	if _, err := dir.Authenticate("owner", "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong password = %v, want ErrUnauthorized", err)
	}
	if _, err := dir.Authenticate("nobody", "rahasia123"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("unknown user = %v, want ErrUnauthorized", err)
	}
}

func TestBootstrap_OnlyWhenEmpty(t *testing.T) {
	dir := newTestDirectory(t)
	if _, err := dir.Bootstrap("owner", "rahasia123"); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if _, err := dir.Bootstrap("owner2", "x"); !errors.Is(err, ErrNotEmpty) {
		t.Errorf("second Bootstrap = %v, want ErrNotEmpty", err)
	}
}

func TestAddOperator_FailsClosedWithoutAdmin(t *testing.T) {
	dir := newTestDirectory(t)

	// empty directory: no admin can vouch, must refuse
	if _, err := dir.AddOperator("kasir1", "pw123", RoleKasir, "anything"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("AddOperator on empty directory = %v, want ErrUnauthorized", err)
	}
}

func TestAddOperator(t *testing.T) {
	dir := newTestDirectory(t)
	if _, err := dir.Bootstrap("owner", "rahasia123"); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	op, err := dir.AddOperator("kasir1", "pw123", RoleKasir, "rahasia123")
	if err != nil {
		t.Fatalf("AddOperator: %v", err)
	}
	if op.Role != RoleKasir {
		t.Errorf("role = %q, want kasir", op.Role)
	}

	if _, err := dir.AddOperator("kasir2", "pw", RoleKasir, "wrong-admin-pw"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong admin password = %v, want ErrUnauthorized", err)
	}
	if _, err := dir.AddOperator("kasir1", "pw", RoleKasir, "rahasia123"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate username = %v, want ErrUsernameTaken", err)
	}
	if _, err := dir.AddOperator("kasir3", "pw", "manager", "rahasia123"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("bad role = %v, want ErrInvalidRole", err)
	}
}

func TestVerifyPassword(t *testing.T) {
	dir := newTestDirectory(t)
	admin, _ := dir.Bootstrap("owner", "rahasia123")

	if err := dir.VerifyPassword(admin.ID, "rahasia123"); err != nil {
		t.Errorf("VerifyPassword: %v", err)
	}
	if err := dir.VerifyPassword(admin.ID, "nope"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong password = %v, want ErrUnauthorized", err)
	}
	if err := dir.VerifyPassword("missing-id", "rahasia123"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("unknown id = %v, want ErrUnauthorized", err)
	}
}

func TestChangePassword(t *testing.T) {
	dir := newTestDirectory(t)
	dir.Bootstrap("owner", "rahasia123")

	if err := dir.ChangePassword("owner", "wrong", "baru456"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("change with wrong old password = %v, want ErrUnauthorized", err)
	}
	if err := dir.ChangePassword("owner", "rahasia123", "baru456"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := dir.Authenticate("owner", "rahasia123"); !errors.Is(err, ErrUnauthorized) {
		t.Error("old password still accepted after change")
	}
	if _, err := dir.Authenticate("owner", "baru456"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}
