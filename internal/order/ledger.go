package order

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Sampel65/youshop-go/internal/cart"
	"github.com/Sampel65/youshop-go/internal/events"
	"github.com/Sampel65/youshop-go/internal/store"
)

const storeKey = "orders"

// Ledger owns the order history for the lifetime of the app: most-recent
// first, append-only except for in-place status mutation. Every mutation is
// written through to the store before the operation completes; a save failure
// leaves the in-memory history authoritative.
type Ledger struct {
	mu     sync.Mutex
	orders []*Order

	store  store.Store
	bus    *events.Bus
	logger *log.Logger
}

// NewLedger loads any persisted history and re-sorts it by date descending.
// Stored insertion order is not trusted; sort order is the durable contract.
// A decode failure degrades to an empty history.
func NewLedger(ctx context.Context, st store.Store, bus *events.Bus, logger *log.Logger) *Ledger {
	l := &Ledger{store: st, bus: bus, logger: logger}

	raw, err := st.Get(ctx, storeKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Printf("load orders: %v", err)
		}
		return l
	}

	var orders []*Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		logger.Printf("decode orders, starting empty: %v", err)
		return l
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Date.After(orders[j].Date)
	})
	l.orders = orders
	return l
}

// PlaceOrder snapshots the cart into a new order with status Processing,
// inserts it at the front of the history, persists, clears the cart, and
// publishes OrderCreated. The order items are copies; mutating the cart
// afterwards does not touch the recorded order.
func (l *Ledger) PlaceOrder(ctx context.Context, c *cart.Cart, shippingCost float64, address, paymentMethod string) Order {
	snap := c.Snapshot()

	items := make([]Item, 0, len(snap.Items))
	for _, ln := range snap.Items {
		items = append(items, Item{Product: ln.Product, Quantity: ln.Quantity})
	}

	o := &Order{
		ID:            uuid.NewString(),
		Items:         items,
		Total:         snap.Total + shippingCost,
		Address:       address,
		PaymentMethod: paymentMethod,
		Status:        StatusProcessing,
		Date:          time.Now().UTC(),
	}

	l.mu.Lock()
	l.orders = append([]*Order{o}, l.orders...)
	l.persistLocked(ctx)
	created := o.clone()
	l.mu.Unlock()

	c.Clear()

	l.bus.Publish(ctx, events.OrderCreated{
		OrderID:    created.ID,
		Total:      created.Total,
		OccurredAt: created.Date,
	})

	return created
}

// UpdateStatus mutates the matching order's status in place, re-persists, and
// publishes OrderStatusChanged. An unknown id is a silent no-op, as is
// setting the status an order already has.
func (l *Ledger) UpdateStatus(ctx context.Context, id string, status Status) {
	l.mu.Lock()
	changed := false
	for _, o := range l.orders {
		if o.ID != id {
			continue
		}
		if o.Status != status {
			o.Status = status
			changed = true
		}
		break
	}
	if changed {
		l.persistLocked(ctx)
	}
	l.mu.Unlock()

	if !changed {
		return
	}

	l.bus.Publish(ctx, events.OrderStatusChanged{
		OrderID:    id,
		Status:     string(status),
		OccurredAt: time.Now().UTC(),
	})
}

// Get returns a copy of the order, or ok=false when the id is unknown.
func (l *Ledger) Get(id string) (Order, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, o := range l.orders {
		if o.ID == id {
			return o.clone(), true
		}
	}
	return Order{}, false
}

// Orders returns copies of the history, most recent first.
func (l *Ledger) Orders() []Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Order, 0, len(l.orders))
	for _, o := range l.orders {
		out = append(out, o.clone())
	}
	return out
}

func (l *Ledger) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(l.orders)
	if err != nil {
		l.logger.Printf("encode orders: %v", err)
		return
	}
	if err := l.store.Set(ctx, storeKey, raw); err != nil {
		l.logger.Printf("save orders: %v", err)
	}
}
