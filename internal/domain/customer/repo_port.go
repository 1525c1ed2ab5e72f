package customer

import "context"

//go:generate mockgen -source repo_port.go -destination mock_customer_repo.go -package customer

type CustomerRepo interface {
	// Upsert inserts the customer or, when its dedup key is already taken,
	// refreshes only phone/email/updated_at on the existing row. The operation
	// is a single atomic statement so concurrent upserts of a brand-new
	// contact produce exactly one row.
	Upsert(ctx context.Context, c Customer) (Customer, error)
	// Create inserts a new customer. Returns apperror.ErrCustomerExists when
	// the dedup key is taken.
	Create(ctx context.Context, c Customer) error
	GetByID(ctx context.Context, id string) (Customer, error)
	GetCustomers(ctx context.Context, query *CustomersQuery) ([]Customer, error)
	CountCustomers(ctx context.Context, query *CustomersQuery) (int64, error)
	// Update applies the partial update. Returns apperror.ErrCustomerNotFound
	// for an unknown id.
	Update(ctx context.Context, id string, update Update) (Customer, error)
	// Stats aggregates orders matching the customer's dedup contact.
	Stats(ctx context.Context, c Customer) (Stats, error)
	// DistinctOrderContacts lists the distinct (name, phone) pairs present on
	// orders, for backfilling customers.
	DistinctOrderContacts(ctx context.Context) ([]Contact, error)
}
