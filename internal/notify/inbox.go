package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Sampel65/youshop-go/internal/events"
	"github.com/Sampel65/youshop-go/internal/store"
)

const storeKey = "notifications"

// Item is a user-visible notification. The inbox is ordered newest-first.
type Item struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	IsRead    bool      `json:"isRead"`
}

// Inbox owns the notification list and the integration with the platform
// push facility. The push and the inbox append are independent effects: a
// push failure is logged and never prevents the append.
type Inbox struct {
	mu    sync.Mutex
	items []Item

	store    store.Store
	notifier Notifier
	logger   *log.Logger
}

// NewInbox loads any persisted notifications and sorts them by timestamp
// descending. A decode failure degrades to an empty inbox.
func NewInbox(ctx context.Context, st store.Store, notifier Notifier, logger *log.Logger) *Inbox {
	in := &Inbox{store: st, notifier: notifier, logger: logger}

	raw, err := st.Get(ctx, storeKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Printf("load notifications: %v", err)
		}
		return in
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.Printf("decode notifications, starting empty: %v", err)
		return in
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	in.items = items
	return in
}

// Add requests a platform notification, then unconditionally prepends an
// unread item to the inbox and persists it.
func (in *Inbox) Add(ctx context.Context, title, message string) Item {
	if err := in.notifier.Push(ctx, title, message); err != nil {
		in.logger.Printf("push notification: %v", err)
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	item := Item{
		ID:        uuid.NewString(),
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	in.items = append([]Item{item}, in.items...)
	in.persistLocked(ctx)
	return item
}

// MarkRead flips isRead for the matching item. Unknown ids are a silent
// no-op.
func (in *Inbox) MarkRead(ctx context.Context, id string) {
	in.mu.Lock()
	defer in.mu.Unlock()

	for i := range in.items {
		if in.items[i].ID != id {
			continue
		}
		if !in.items[i].IsRead {
			in.items[i].IsRead = true
			in.persistLocked(ctx)
		}
		return
	}
}

// ClearAll empties the inbox and persists the empty state.
func (in *Inbox) ClearAll(ctx context.Context) {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.items = nil
	in.persistLocked(ctx)
}

// Items returns a copy of the inbox, newest first.
func (in *Inbox) Items() []Item {
	in.mu.Lock()
	defer in.mu.Unlock()

	out := make([]Item, len(in.items))
	copy(out, in.items)
	return out
}

// UnreadCount reports the number of unread items, for badge displays.
func (in *Inbox) UnreadCount() int {
	in.mu.Lock()
	defer in.mu.Unlock()

	n := 0
	for _, it := range in.items {
		if !it.IsRead {
			n++
		}
	}
	return n
}

// HandleEvent subscribes the inbox to the domain event bus.
func (in *Inbox) HandleEvent(ctx context.Context, ev events.Event) {
	switch e := ev.(type) {
	case events.OrderCreated:
		in.Add(ctx, "Order Placed",
			fmt.Sprintf("Order #%s has been confirmed check your order history for full details", e.OrderID))
	case events.OrderStatusChanged:
		in.Add(ctx, "Order Update",
			fmt.Sprintf("Order #%s is now %s", e.OrderID, e.Status))
	}
}

func (in *Inbox) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(in.items)
	if err != nil {
		in.logger.Printf("encode notifications: %v", err)
		return
	}
	if err := in.store.Set(ctx, storeKey, raw); err != nil {
		in.logger.Printf("save notifications: %v", err)
	}
}
