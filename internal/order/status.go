package order

import "fmt"

// Status is the order lifecycle state. Processing is assigned at creation;
// the remaining states are set by operator actions. No transition legality is
// enforced between states.
type Status string

const (
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusReturned   Status = "Returned"
	StatusCancelled  Status = "Cancelled"
)

func Statuses() []Status {
	return []Status{
		StatusProcessing,
		StatusShipped,
		StatusDelivered,
		StatusReturned,
		StatusCancelled,
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusDelivered, StatusReturned, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus maps a wire string to a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}
