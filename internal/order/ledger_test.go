package order

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Sampel65/youshop-go/internal/cart"
	"github.com/Sampel65/youshop-go/internal/catalog"
	"github.com/Sampel65/youshop-go/internal/events"
	"github.com/Sampel65/youshop-go/internal/store"
)

type fakeStore struct {
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (f *fakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return v, nil
}

func (f *fakeStore) Set(ctx context.Context, key string, value []byte) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

type eventRecorder struct {
	events []events.Event
}

func (r *eventRecorder) handle(ctx context.Context, ev events.Event) {
	r.events = append(r.events, ev)
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestLedger(t *testing.T, st store.Store) (*Ledger, *eventRecorder) {
	t.Helper()
	bus := events.NewBus()
	rec := &eventRecorder{}
	bus.Subscribe(rec.handle)
	return NewLedger(context.Background(), st, bus, testLogger()), rec
}

func cartWith(p catalog.Product, qty int) *cart.Cart {
	c := cart.New()
	for i := 0; i < qty; i++ {
		c.Add(p)
	}
	return c
}

func TestPlaceOrder(t *testing.T) {
	st := newFakeStore()
	ledger, rec := newTestLedger(t, st)

	p := catalog.Product{ID: 1, Title: "Jacket", Price: 10.0}
	c := cartWith(p, 2)

	o := ledger.PlaceOrder(context.Background(), c, 8.0, "X", "COD")

	require.NotEmpty(t, o.ID)
	require.Equal(t, StatusProcessing, o.Status)
	require.InDelta(t, 28.0, o.Total, 1e-9)
	require.Equal(t, "X", o.Address)
	require.Equal(t, "COD", o.PaymentMethod)
	require.Equal(t, 2, o.ItemCount())
	require.False(t, o.Date.IsZero())

	// Cart is cleared as a side effect.
	require.Zero(t, c.ItemCount())
	require.Zero(t, c.Total())

	// Exactly one OrderCreated event.
	require.Len(t, rec.events, 1)
	created, ok := rec.events[0].(events.OrderCreated)
	require.True(t, ok)
	require.Equal(t, o.ID, created.OrderID)
	require.InDelta(t, 28.0, created.Total, 1e-9)

	// Write-through persistence.
	raw, ok := st.data["orders"]
	require.True(t, ok)
	var persisted []Order
	require.NoError(t, json.Unmarshal(raw, &persisted))
	require.Len(t, persisted, 1)
	require.Equal(t, o.ID, persisted[0].ID)
}

func TestPlaceOrderSnapshotsItems(t *testing.T) {
	ledger, _ := newTestLedger(t, newFakeStore())

	p := catalog.Product{ID: 1, Price: 10.0}
	c := cartWith(p, 2)

	o := ledger.PlaceOrder(context.Background(), c, 0, "X", "COD")

	// Mutating the cart after checkout must not change the recorded order.
	c.Add(p)
	c.Add(p)

	got, ok := ledger.Get(o.ID)
	require.True(t, ok)
	require.Len(t, got.Items, 1)
	require.Equal(t, 2, got.Items[0].Quantity)
}

func TestPlaceOrderInsertsAtFront(t *testing.T) {
	ledger, _ := newTestLedger(t, newFakeStore())
	p := catalog.Product{ID: 1, Price: 1.0}

	first := ledger.PlaceOrder(context.Background(), cartWith(p, 1), 0, "X", "COD")
	second := ledger.PlaceOrder(context.Background(), cartWith(p, 1), 0, "X", "COD")

	orders := ledger.Orders()
	require.Len(t, orders, 2)
	require.Equal(t, second.ID, orders[0].ID)
	require.Equal(t, first.ID, orders[1].ID)
}

func TestUpdateStatusUnknownIDIsNoOp(t *testing.T) {
	st := newFakeStore()
	ledger, rec := newTestLedger(t, st)

	p := catalog.Product{ID: 1, Price: 1.0}
	o := ledger.PlaceOrder(context.Background(), cartWith(p, 1), 0, "X", "COD")
	rec.events = nil
	setsBefore := st.sets

	ledger.UpdateStatus(context.Background(), "missing", StatusShipped)

	got, ok := ledger.Get(o.ID)
	require.True(t, ok)
	require.Equal(t, StatusProcessing, got.Status)
	require.Empty(t, rec.events)
	require.Equal(t, setsBefore, st.sets)
}

func TestUpdateStatusLifecycle(t *testing.T) {
	ledger, rec := newTestLedger(t, newFakeStore())

	p := catalog.Product{ID: 1, Price: 1.0}
	o := ledger.PlaceOrder(context.Background(), cartWith(p, 1), 0, "X", "COD")
	rec.events = nil

	ledger.UpdateStatus(context.Background(), o.ID, StatusShipped)
	ledger.UpdateStatus(context.Background(), o.ID, StatusDelivered)

	got, ok := ledger.Get(o.ID)
	require.True(t, ok)
	require.Equal(t, StatusDelivered, got.Status)

	require.Len(t, rec.events, 2)
	ev1, ok := rec.events[0].(events.OrderStatusChanged)
	require.True(t, ok)
	require.Equal(t, string(StatusShipped), ev1.Status)
	ev2, ok := rec.events[1].(events.OrderStatusChanged)
	require.True(t, ok)
	require.Equal(t, string(StatusDelivered), ev2.Status)
}

func TestUpdateStatusUnchangedEmitsNothing(t *testing.T) {
	ledger, rec := newTestLedger(t, newFakeStore())

	p := catalog.Product{ID: 1, Price: 1.0}
	o := ledger.PlaceOrder(context.Background(), cartWith(p, 1), 0, "X", "COD")
	rec.events = nil

	ledger.UpdateStatus(context.Background(), o.ID, StatusProcessing)

	require.Empty(t, rec.events)
}

func TestNewLedgerSortsHistoryByDateDescending(t *testing.T) {
	st := newFakeStore()

	base := time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)
	stored := []*Order{
		{ID: "oldest", Status: StatusProcessing, Date: base},
		{ID: "newest", Status: StatusProcessing, Date: base.Add(2 * time.Hour)},
		{ID: "middle", Status: StatusProcessing, Date: base.Add(time.Hour)},
	}
	raw, err := json.Marshal(stored)
	require.NoError(t, err)
	require.NoError(t, st.Set(context.Background(), "orders", raw))

	ledger, _ := newTestLedger(t, st)

	orders := ledger.Orders()
	require.Len(t, orders, 3)
	require.Equal(t, "newest", orders[0].ID)
	require.Equal(t, "middle", orders[1].ID)
	require.Equal(t, "oldest", orders[2].ID)
}

func TestNewLedgerDecodeFailureStartsEmpty(t *testing.T) {
	st := newFakeStore()
	require.NoError(t, st.Set(context.Background(), "orders", []byte("not json")))

	ledger, _ := newTestLedger(t, st)

	require.Empty(t, ledger.Orders())
}

func TestNewLedgerLoadErrorStartsEmpty(t *testing.T) {
	st := newFakeStore()
	st.getErr = errors.New("store down")

	ledger, _ := newTestLedger(t, st)

	require.Empty(t, ledger.Orders())
}

func TestPlaceOrderSaveFailureKeepsMemoryAuthoritative(t *testing.T) {
	st := newFakeStore()
	st.setErr = errors.New("disk full")
	ledger, rec := newTestLedger(t, st)

	p := catalog.Product{ID: 1, Price: 5.0}
	o := ledger.PlaceOrder(context.Background(), cartWith(p, 1), 0, "X", "COD")

	got, ok := ledger.Get(o.ID)
	require.True(t, ok)
	require.Equal(t, o.ID, got.ID)
	require.Len(t, rec.events, 1)
}

func TestGetReturnsCopy(t *testing.T) {
	ledger, _ := newTestLedger(t, newFakeStore())

	p := catalog.Product{ID: 1, Price: 5.0}
	o := ledger.PlaceOrder(context.Background(), cartWith(p, 1), 0, "X", "COD")

	got, ok := ledger.Get(o.ID)
	require.True(t, ok)
	got.Status = StatusCancelled
	got.Items[0].Quantity = 99

	again, ok := ledger.Get(o.ID)
	require.True(t, ok)
	require.Equal(t, StatusProcessing, again.Status)
	require.Equal(t, 1, again.Items[0].Quantity)
}

func TestGetUnknownID(t *testing.T) {
	ledger, _ := newTestLedger(t, newFakeStore())

	_, ok := ledger.Get("missing")
	require.False(t, ok)
}
