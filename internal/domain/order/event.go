package order

import "context"

// EventType enumerates order lifecycle events pushed to stream subscribers
// and mirrored to the optional external sinks.
type EventType string

const (
	EventOrderCreated       EventType = "order_created"
	EventOrderDeleted       EventType = "order_deleted"
	EventOrderStatusChanged EventType = "order_status_changed"
	EventHeartbeat          EventType = "heartbeat"
)

// Event is a single lifecycle event. Data is the order for created/status
// changes and a {"id": ...} reference for deletions.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// EventSink receives order lifecycle events. Implementations must not rely on
// the caller retrying: delivery is best-effort and failures are only logged.
type EventSink interface {
	Publish(ctx context.Context, event Event) error
}
