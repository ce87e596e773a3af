package operator

import "time"

// Operator roles.
const (
	RoleAdmin = "admin"
	RoleKasir = "kasir"
)

// Operator is a system user who can open the store and commit sales.
// PasswordHash is a bcrypt hash; the plaintext is never stored.
type Operator struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Role         string    `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"createdAt"`
}
