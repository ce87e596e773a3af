package operator

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrUnauthorized is returned on any credential mismatch. It deliberately
// carries no detail about which field was wrong.
var ErrUnauthorized = errors.New("unauthorized")

// ErrUsernameTaken is returned when adding an operator with an existing username.
var ErrUsernameTaken = errors.New("username already in use")

// ErrInvalidRole is returned for roles other than admin and kasir.
var ErrInvalidRole = errors.New("invalid role")

// ErrNotEmpty is returned when bootstrapping a directory that already has operators.
var ErrNotEmpty = errors.New("operator directory is not empty")

// Directory is the single place credentials are checked. Session open,
// session close, and operator administration all consume it instead of
// comparing hashes themselves.
type Directory struct {
	storage Storage
	logger  *zap.Logger
}

// NewDirectory creates a new Directory.
func NewDirectory(storage Storage, logger *zap.Logger) *Directory {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Directory{
		storage: storage,
		logger:  logger,
	}
}

// Authenticate returns the operator whose username and password match, or
// ErrUnauthorized. Unknown usernames and wrong passwords are indistinguishable.
func (d *Directory) Authenticate(username, password string) (*Operator, error) {
	op, err := d.storage.ReadByUsername(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("reading operator: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)) != nil {
		return nil, ErrUnauthorized
	}
	return op, nil
}

// VerifyPassword checks password against the stored credential of the
// operator with the given ID.
func (d *Directory) VerifyPassword(operatorID, password string) error {
	op, err := d.storage.Read(operatorID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("reading operator: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)) != nil {
		return ErrUnauthorized
	}
	return nil
}

// AddOperator creates a new operator after validating adminPassword against
// an existing admin account. It fails closed: when no admin exists yet, or
// the password matches no admin, the result is ErrUnauthorized.
func (d *Directory) AddOperator(username, password, role, adminPassword string) (*Operator, error) {
	if role != RoleAdmin && role != RoleKasir {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if username == "" || password == "" {
		return nil, ErrUnauthorized
	}
	if err := d.requireAdmin(adminPassword); err != nil {
		return nil, err
	}

	if _, err := d.storage.ReadByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("checking username: %w", err)
	}

	op, err := d.create(username, password, role)
	if err != nil {
		return nil, err
	}
	d.logger.Info("operator added", zap.String("operator_id", op.ID), zap.String("role", op.Role))
	return op, nil
}

// ChangePassword replaces an operator's credential after verifying the old one.
func (d *Directory) ChangePassword(username, oldPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: empty password", ErrUnauthorized)
	}
	op, err := d.Authenticate(username, oldPassword)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	op.PasswordHash = string(hash)
	if err := d.storage.Set(op); err != nil {
		return fmt.Errorf("failed to save operator: %w", err)
	}
	d.logger.Info("operator password changed", zap.String("operator_id", op.ID))
	return nil
}

// Bootstrap seeds the very first admin account. It only succeeds while the
// directory is empty; afterwards AddOperator with an admin credential is the
// only way in.
func (d *Directory) Bootstrap(username, password string) (*Operator, error) {
	ops, err := d.storage.GetAll()
	if err != nil {
		return nil, fmt.Errorf("listing operators: %w", err)
	}
	if len(ops) > 0 {
		return nil, ErrNotEmpty
	}
	op, err := d.create(username, password, RoleAdmin)
	if err != nil {
		return nil, err
	}
	d.logger.Info("bootstrap admin created", zap.String("operator_id", op.ID))
	return op, nil
}

func (d *Directory) create(username, password, role string) (*Operator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	op := &Operator{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := d.storage.Set(op); err != nil {
		return nil, fmt.Errorf("failed to save operator: %w", err)
	}
	return op, nil
}

func (d *Directory) requireAdmin(adminPassword string) error {
	if adminPassword == "" {
		return ErrUnauthorized
	}
	ops, err := d.storage.GetAll()
	if err != nil {
		return fmt.Errorf("listing operators: %w", err)
	}
	for _, op := range ops {
		if op.Role != RoleAdmin {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(adminPassword)) == nil {
			return nil
		}
	}
	return ErrUnauthorized
}
