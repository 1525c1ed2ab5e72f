package order

import "context"

//go:generate mockgen -source repo_port.go -destination mock_order_repo.go -package order

type OrderRepo interface {
	Create(ctx context.Context, o Order) error
	GetOrders(ctx context.Context, query *OrdersQuery) ([]Order, error)
	// CountOrders reports the total number of rows matching the query,
	// ignoring pagination.
	CountOrders(ctx context.Context, query *OrdersQuery) (int64, error)
	// UpdateFields applies the allow-listed partial update, bumps updated_at
	// and returns the updated order. Returns apperror.ErrOrderNotFound for an
	// unknown id.
	UpdateFields(ctx context.Context, id string, update StatusUpdate) (Order, error)
	// Delete removes the order. Returns apperror.ErrOrderNotFound for an
	// unknown id.
	Delete(ctx context.Context, id string) error
}
