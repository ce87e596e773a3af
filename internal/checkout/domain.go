package checkout

import "time"

// CartLine is one scanned or selected entry in an in-progress cart. The unit
// price is copied from the catalog at scan time so the displayed subtotal
// cannot drift while the cart is open.
type CartLine struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	UnitLabel string `json:"unit"`
	Quantity  int    `json:"qty"`
	UnitPrice int    `json:"unit_price"`
	Subtotal  int    `json:"subtotal"`
}

// SoldLine is the snapshot of a cart line persisted inside a transaction.
type SoldLine struct {
	Name     string `json:"name" bson:"name"`
	Unit     string `json:"unit" bson:"unit"`
	Qty      int    `json:"qty" bson:"qty"`
	Subtotal int    `json:"subtotal" bson:"subtotal"`
}

// Transaction is a committed sale. Records are append-only: once written
// they are never mutated or deleted.
type Transaction struct {
	ID         string     `json:"id" bson:"_id"`
	CreatedAt  time.Time  `json:"created_at" bson:"createdAt"`
	Items      []SoldLine `json:"items" bson:"items"`
	Subtotal   int        `json:"subtotal" bson:"subtotal"`
	Total      int        `json:"total" bson:"total"`
	Payment    int        `json:"payment" bson:"payment"`
	Change     int        `json:"change" bson:"change"`
	Note       string     `json:"note,omitempty" bson:"note,omitempty"`
	OperatorID string     `json:"operator_id" bson:"operatorId"`
}
