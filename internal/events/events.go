package events

import (
	"context"
	"sync"
	"time"
)

// Event is a domain event emitted by the order ledger.
type Event interface {
	EventName() string
}

// OrderCreated is published after a new order has been persisted.
type OrderCreated struct {
	OrderID    string    `json:"orderId"`
	Total      float64   `json:"total"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (OrderCreated) EventName() string { return "OrderCreated" }

// OrderStatusChanged is published after an order's status has been mutated
// and re-persisted.
type OrderStatusChanged struct {
	OrderID    string    `json:"orderId"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (OrderStatusChanged) EventName() string { return "OrderStatusChanged" }

// HandlerFunc receives every published event; handlers switch on the
// concrete type for the events they care about.
type HandlerFunc func(ctx context.Context, ev Event)

// Bus is an in-process event channel. Dispatch is synchronous and in
// subscription order: Publish returns only after every handler has run, so a
// caller observes all derived side effects as part of the same operation.
type Bus struct {
	mu       sync.RWMutex
	handlers []HandlerFunc
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(fn HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, fn)
}

func (b *Bus) Publish(ctx context.Context, ev Event) {
	b.mu.RLock()
	handlers := make([]HandlerFunc, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ctx, ev)
	}
}
