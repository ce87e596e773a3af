package storesession

import "time"

// StoreSession is one trading day's open/close record. ClosedAt is nil while
// the session is active; at most one session is active system-wide.
type StoreSession struct {
	ID           string     `json:"id" bson:"_id"`
	OperatorID   string     `json:"operator_id" bson:"operatorId"`
	OperatorName string     `json:"operator_name" bson:"operatorName"`
	CashStart    int        `json:"cash_start" bson:"cashStart"`
	OpenedAt     time.Time  `json:"opened_at" bson:"openedAt"`
	ClosedAt     *time.Time `json:"closed_at,omitempty" bson:"closedAt,omitempty"`
	CashEnd      *int       `json:"cash_end,omitempty" bson:"cashEnd,omitempty"`
}

// IsOpen reports whether the session has not been closed yet.
func (s *StoreSession) IsOpen() bool {
	return s.ClosedAt == nil
}
