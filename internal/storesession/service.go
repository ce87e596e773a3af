package storesession

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"api_pos/internal/operator"
)

// ErrBadCashStart is returned when opening with a negative opening float.
var ErrBadCashStart = errors.New("cash start must be non-negative")

// Credentials is the slice of the operator directory the manager needs.
type Credentials interface {
	Authenticate(username, password string) (*operator.Operator, error)
	VerifyPassword(operatorID, password string) error
}

// Manager drives the Closed → Open → Closed state machine of a trading day.
// It gates whether sales may be committed: checkout consults IsOpen before
// touching stock.
type Manager struct {
	storage   Storage
	operators Credentials
	logger    *zap.Logger
}

// NewManager creates a new Manager.
func NewManager(storage Storage, operators Credentials, logger *zap.Logger) *Manager {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Manager{
		storage:   storage,
		operators: operators,
		logger:    logger,
	}
}

// Open authenticates the operator and starts a new session with the given
// opening float. Fails with operator.ErrUnauthorized on a credential
// mismatch and ErrAlreadyOpen when a session is already active.
func (m *Manager) Open(username, password string, cashStart int) (*StoreSession, error) {
	if cashStart < 0 {
		return nil, ErrBadCashStart
	}
	op, err := m.operators.Authenticate(username, password)
	if err != nil {
		return nil, err
	}

	s := &StoreSession{
		ID:           uuid.NewString(),
		OperatorID:   op.ID,
		OperatorName: op.Username,
		CashStart:    cashStart,
		OpenedAt:     time.Now(),
	}
	if err := m.storage.Open(s); err != nil {
		if errors.Is(err, ErrAlreadyOpen) {
			return nil, ErrAlreadyOpen
		}
		m.logger.Error("failed to open session", zap.Error(err))
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	m.logger.Info("store opened",
		zap.String("session_id", s.ID),
		zap.String("operator", s.OperatorName),
		zap.Int("cash_start", s.CashStart),
	)
	return s, nil
}

// Close ends the active session. The password must match the credential of
// the operator who opened it; on any mismatch the session stays open and the
// record is untouched.
func (m *Manager) Close(password string, cashEnd *int) (*StoreSession, error) {
	s, err := m.storage.Active()
	if err != nil {
		return nil, err
	}
	if err := m.operators.VerifyPassword(s.OperatorID, password); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := m.storage.Close(s.ID, now, cashEnd); err != nil {
		m.logger.Error("failed to close session", zap.String("session_id", s.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to close session: %w", err)
	}
	s.ClosedAt = &now
	s.CashEnd = cashEnd

	m.logger.Info("store closed", zap.String("session_id", s.ID))
	return s, nil
}

// Active returns the currently open session, or ErrNotOpen.
func (m *Manager) Active() (*StoreSession, error) {
	return m.storage.Active()
}

// IsOpen reports whether a session is currently active.
func (m *Manager) IsOpen() bool {
	_, err := m.storage.Active()
	return err == nil
}

// List returns every recorded session.
func (m *Manager) List() ([]*StoreSession, error) {
	return m.storage.GetAll()
}
