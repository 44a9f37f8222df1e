package order

import (
	"time"

	"github.com/Sampel65/youshop-go/internal/catalog"
)

// Item is a line item copied out of the cart at checkout time.
type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Order is created from a cart snapshot and owned by the Ledger. Every field
// except Status is frozen at creation.
type Order struct {
	ID            string    `json:"id"`
	Items         []Item    `json:"items"`
	Total         float64   `json:"total"`
	Address       string    `json:"address"`
	PaymentMethod string    `json:"paymentMethod"`
	Status        Status    `json:"status"`
	Date          time.Time `json:"date"`
}

// ItemCount is the sum of all quantities.
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

func (o Order) clone() Order {
	cp := o
	cp.Items = make([]Item, len(o.Items))
	copy(cp.Items, o.Items)
	return cp
}
