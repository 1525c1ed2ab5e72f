package order

import "context"

//go:generate mockgen -source ports.go -destination mock_ports.go -package order

// Notifier pushes human-readable order summaries to an external channel.
// Calls are made from detached goroutines; errors are logged, never retried.
type Notifier interface {
	NewOrder(ctx context.Context, o Order) error
	StatusUpdate(ctx context.Context, orderID string, status Status) error
}

// CustomerUpserter maintains customer identity records from order contacts.
type CustomerUpserter interface {
	UpsertContact(ctx context.Context, name, phone string) error
}
