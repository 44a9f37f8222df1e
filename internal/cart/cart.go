package cart

import (
	"sort"
	"sync"

	"github.com/Sampel65/youshop-go/internal/catalog"
)

// Line is one product in the cart with its quantity, always >= 1.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Snapshot is a deep copy of the cart taken at checkout time. It never
// aliases the live cart.
type Snapshot struct {
	Items []Line
	Total float64
}

// Cart aggregates selected products into quantities for the current session.
// It holds at most one line per product id and keeps a running total equal to
// the sum of price times quantity over all lines. The cart is session-only:
// it is never persisted and emits no events.
type Cart struct {
	mu    sync.Mutex
	lines map[int]*Line
	total float64
}

func New() *Cart {
	return &Cart{lines: make(map[int]*Line)}
}

// Add increments the line for the product by 1, inserting a new line at
// quantity 1 when absent. It always succeeds.
func (c *Cart) Add(p catalog.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ln, ok := c.lines[p.ID]; ok {
		ln.Quantity++
	} else {
		c.lines[p.ID] = &Line{Product: p, Quantity: 1}
	}
	c.recalcLocked()
}

// Remove decrements the line for the product by 1, deleting the line at
// quantity 1. Removing an absent product is a no-op.
func (c *Cart) Remove(p catalog.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ln, ok := c.lines[p.ID]
	if !ok {
		return
	}
	if ln.Quantity > 1 {
		ln.Quantity--
	} else {
		delete(c.lines, p.ID)
	}
	c.recalcLocked()
}

// Clear empties all lines and resets the total.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = make(map[int]*Line)
	c.recalcLocked()
}

func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// ItemCount is the sum of all quantities, not the number of lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, ln := range c.lines {
		n += ln.Quantity
	}
	return n
}

// Lines returns a copy of the cart lines sorted by product id.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.linesLocked()
}

// Snapshot returns a deep copy of lines and total for checkout.
func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Items: c.linesLocked(), Total: c.total}
}

func (c *Cart) linesLocked() []Line {
	out := make([]Line, 0, len(c.lines))
	for _, ln := range c.lines {
		out = append(out, *ln)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product.ID < out[j].Product.ID })
	return out
}

// recalcLocked rebuilds the cached total from the lines. The total is a
// projection, never the source of truth.
func (c *Cart) recalcLocked() {
	total := 0.0
	for _, ln := range c.lines {
		total += ln.Product.Price * float64(ln.Quantity)
	}
	c.total = total
}
