package models

import "time"

// CartLine is a single cart entry: an item from a particular store together
// with the quantity being bought. Lines are unique by (StoreID, Item.ID).
type CartLine struct {
	StoreID  string    `json:"store_id" db:"store_id"`
	Item     Item      `json:"item"`
	Quantity int       `json:"quantity" db:"quantity"`
	AddedAt  time.Time `json:"added_at" db:"added_at"`
}

// Subtotal returns the line's contribution to the cart total.
func (l *CartLine) Subtotal() float64 {
	return l.Item.Price * float64(l.Quantity)
}
