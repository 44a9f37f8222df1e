package notify

import "context"

// Notifier is the platform push facility. Delivery is best-effort; callers
// log failures and move on.
type Notifier interface {
	Push(ctx context.Context, title, body string) error
}

// NopNotifier drops every push. Used in tests and when no broker is
// configured.
type NopNotifier struct{}

func (NopNotifier) Push(ctx context.Context, title, body string) error { return nil }
