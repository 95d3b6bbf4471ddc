package models

import "fmt"

// CartItem is one line of a session cart. Identity for merging is the
// product plus the selected variant size; two sizes of the same product are
// separate lines.
type CartItem struct {
	ProductID  int64   `json:"product_id"`
	OriginalID string  `json:"original_id,omitempty"`
	Name       string  `json:"name"`
	Size       string  `json:"size,omitempty"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
}

// Key identifies the item for merge/remove/set-quantity operations
func (i CartItem) Key() string {
	return fmt.Sprintf("%d|%s", i.ProductID, i.Size)
}

// Subtotal is unit price times quantity for this line
func (i CartItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Cart is a session cart; never persisted server-side beyond process memory
type Cart struct {
	Items []CartItem `json:"items"`
}

// Total is the sum of unit price times quantity over all lines
func (c Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// Count is the total number of units across all lines
func (c Cart) Count() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}
