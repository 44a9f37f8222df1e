package cart

import (
	"math"
	"testing"

	"github.com/Sampel65/youshop-go/internal/catalog"
)

func product(id int, price float64) catalog.Product {
	return catalog.Product{ID: id, Title: "product", Price: price}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCartAddAccumulates(t *testing.T) {
	c := New()
	p := product(1, 10.0)

	c.Add(p)
	c.Add(p)

	if got := c.ItemCount(); got != 2 {
		t.Fatalf("item count = %d, want 2", got)
	}
	if got := c.Total(); !almostEqual(got, 20.0) {
		t.Fatalf("total = %v, want 20.0", got)
	}
	if got := len(c.Lines()); got != 1 {
		t.Fatalf("lines = %d, want 1 merged line", got)
	}
}

func TestCartRemove(t *testing.T) {
	c := New()
	p := product(1, 10.0)
	c.Add(p)
	c.Add(p)

	c.Remove(p)
	if got := c.ItemCount(); got != 1 {
		t.Fatalf("after first remove: item count = %d, want 1", got)
	}
	if got := c.Total(); !almostEqual(got, 10.0) {
		t.Fatalf("after first remove: total = %v, want 10.0", got)
	}

	c.Remove(p)
	if got := c.ItemCount(); got != 0 {
		t.Fatalf("after second remove: item count = %d, want 0", got)
	}
	if got := c.Total(); !almostEqual(got, 0.0) {
		t.Fatalf("after second remove: total = %v, want 0.0", got)
	}
}

func TestCartRemoveAbsentIsNoOp(t *testing.T) {
	c := New()
	c.Add(product(1, 5.0))

	c.Remove(product(99, 1.0))

	if got := c.ItemCount(); got != 1 {
		t.Fatalf("item count = %d, want 1", got)
	}
	if got := c.Total(); !almostEqual(got, 5.0) {
		t.Fatalf("total = %v, want 5.0", got)
	}
}

func TestCartClear(t *testing.T) {
	c := New()
	c.Add(product(1, 5.0))
	c.Add(product(2, 7.5))

	c.Clear()

	if got := c.ItemCount(); got != 0 {
		t.Fatalf("item count = %d, want 0", got)
	}
	if got := c.Total(); !almostEqual(got, 0.0) {
		t.Fatalf("total = %v, want 0.0", got)
	}
}

func TestCartTotalInvariant(t *testing.T) {
	type op struct {
		remove bool
		p      catalog.Product
	}

	pA := product(1, 10.0)
	pB := product(2, 3.25)
	pC := product(3, 99.99)

	tests := map[string][]op{
		"adds only": {
			{p: pA}, {p: pA}, {p: pB}, {p: pC}, {p: pB},
		},
		"adds and removes": {
			{p: pA}, {p: pB}, {p: pA}, {remove: true, p: pA}, {p: pC}, {remove: true, p: pB},
		},
		"remove below floor": {
			{p: pA}, {remove: true, p: pA}, {remove: true, p: pA}, {p: pB},
		},
		"absent removes interleaved": {
			{remove: true, p: pC}, {p: pA}, {remove: true, p: pB}, {p: pC},
		},
	}

	for name, ops := range tests {
		t.Run(name, func(t *testing.T) {
			c := New()
			for _, o := range ops {
				if o.remove {
					c.Remove(o.p)
				} else {
					c.Add(o.p)
				}

				want := 0.0
				count := 0
				for _, ln := range c.Lines() {
					want += ln.Product.Price * float64(ln.Quantity)
					count += ln.Quantity
				}
				if got := c.Total(); !almostEqual(got, want) {
					t.Fatalf("total = %v, want %v (recomputed from lines)", got, want)
				}
				if got := c.ItemCount(); got != count {
					t.Fatalf("item count = %d, want %d", got, count)
				}
			}
		})
	}
}

func TestCartSnapshotIsDecoupled(t *testing.T) {
	c := New()
	p := product(1, 10.0)
	c.Add(p)
	c.Add(p)

	snap := c.Snapshot()

	c.Add(p)
	c.Add(product(2, 1.0))

	if len(snap.Items) != 1 || snap.Items[0].Quantity != 2 {
		t.Fatalf("snapshot mutated by later cart changes: %+v", snap.Items)
	}
	if !almostEqual(snap.Total, 20.0) {
		t.Fatalf("snapshot total = %v, want 20.0", snap.Total)
	}
}
