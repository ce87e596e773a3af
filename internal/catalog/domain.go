package catalog

import "time"

// Unit is one sellable measure of an item (e.g. "kg", "pcs") with its own
// pricing and stock count. Prices are in the smallest currency denomination.
type Unit struct {
	Label         string `json:"unit" bson:"unit"`
	PurchasePrice int    `json:"purchase_price" bson:"purchasePrice"`
	SellPrice     int    `json:"sell_price" bson:"sellPrice"`
	Stock         int    `json:"stock" bson:"stock"`
}

// Item is a catalog entry. Barcode is the scannable key and must be unique
// across the catalog. An item carries at least one unit.
type Item struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Barcode     string    `json:"barcode" bson:"barcode"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Units       []Unit    `json:"units" bson:"units"`
	CreatedAt   time.Time `json:"created_at" bson:"createdAt"`
}

// UnitByLabel returns the unit with the given label, or false if the item
// has no such unit.
func (i *Item) UnitByLabel(label string) (Unit, bool) {
	for _, u := range i.Units {
		if u.Label == label {
			return u, true
		}
	}
	return Unit{}, false
}

func (i *Item) clone() *Item {
	c := *i
	c.Units = make([]Unit, len(i.Units))
	copy(c.Units, i.Units)
	return &c
}
