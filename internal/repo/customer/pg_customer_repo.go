package customer_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mebelmarket/internal/controller/apperror"
	"mebelmarket/internal/domain/customer"
	"mebelmarket/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var customerColumns = []string{
	"id", "name", "email", "phone", "status", "notes", "created_at", "updated_at",
}

const uniqueViolation = "23505"

// PgCustomerRepo persists customers in PostgreSQL. Identity is enforced by a
// UNIQUE constraint on dedup_key, which makes Upsert a single atomic
// statement.
type PgCustomerRepo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

func NewPgCustomerRepo(pg *postgres.Postgres) *PgCustomerRepo {
	return &PgCustomerRepo{db: pg.Pool, builder: pg.Builder}
}

// Upsert inserts the customer or refreshes phone/email on the row holding the
// same dedup key. Status and notes are admin-owned and never touched here.
func (r *PgCustomerRepo) Upsert(ctx context.Context, c customer.Customer) (customer.Customer, error) {
	query, args, err := r.builder.Insert("customers").
		Columns("id", "name", "email", "phone", "status", "notes", "dedup_key", "created_at", "updated_at").
		Values(c.ID, c.Name, c.Email, c.Phone, c.Status, c.Notes, customer.DedupKey(c.Name, c.Email, c.Phone), c.CreatedAt, c.UpdatedAt).
		Suffix(`ON CONFLICT (dedup_key) DO UPDATE SET
			phone = CASE WHEN EXCLUDED.phone <> '' THEN EXCLUDED.phone ELSE customers.phone END,
			email = CASE WHEN EXCLUDED.email <> '' THEN EXCLUDED.email ELSE customers.email END,
			updated_at = NOW()
		RETURNING ` + strings.Join(customerColumns, ", ")).
		ToSql()
	if err != nil {
		return customer.Customer{}, fmt.Errorf("build upsert query: %w", err)
	}

	upserted, err := parseCustomerRow(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return customer.Customer{}, fmt.Errorf("upsert customer: %w", err)
	}
	return upserted, nil
}

func (r *PgCustomerRepo) Create(ctx context.Context, c customer.Customer) error {
	query, args, err := r.builder.Insert("customers").
		Columns("id", "name", "email", "phone", "status", "notes", "dedup_key", "created_at", "updated_at").
		Values(c.ID, c.Name, c.Email, c.Phone, c.Status, c.Notes, customer.DedupKey(c.Name, c.Email, c.Phone), c.CreatedAt, c.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperror.ErrCustomerExists
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *PgCustomerRepo) GetByID(ctx context.Context, id string) (customer.Customer, error) {
	query, args, err := r.builder.Select(customerColumns...).
		From("customers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return customer.Customer{}, fmt.Errorf("build select query: %w", err)
	}

	c, err := parseCustomerRow(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return customer.Customer{}, apperror.ErrCustomerNotFound
	}
	if err != nil {
		return customer.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (r *PgCustomerRepo) GetCustomers(ctx context.Context, q *customer.CustomersQuery) ([]customer.Customer, error) {
	query, args, err := r.applyFilter(r.builder.Select(customerColumns...).From("customers"), q).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build customers query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var customers []customer.Customer
	for rows.Next() {
		c, err := parseCustomerRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer rows: %w", err)
	}
	return customers, nil
}

func (r *PgCustomerRepo) CountCustomers(ctx context.Context, q *customer.CustomersQuery) (int64, error) {
	filtered := *q
	filtered.Pagination = nil

	query, args, err := r.applyFilter(r.builder.Select("COUNT(*)").From("customers"), &filtered).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return total, nil
}

// Update is a read-modify-write because the dedup key has to be recomputed
// from the merged contact fields. Admin updates do not race with the order
// path, which only ever goes through Upsert.
func (r *PgCustomerRepo) Update(ctx context.Context, id string, update customer.Update) (customer.Customer, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return customer.Customer{}, err
	}

	if update.Name != nil {
		existing.Name = *update.Name
	}
	if update.Email != nil {
		existing.Email = *update.Email
	}
	if update.Phone != nil {
		existing.Phone = *update.Phone
	}
	if update.Status != nil {
		existing.Status = *update.Status
	}
	if update.Notes != nil {
		existing.Notes = *update.Notes
	}

	query, args, err := r.builder.Update("customers").
		Set("name", existing.Name).
		Set("email", existing.Email).
		Set("phone", existing.Phone).
		Set("status", existing.Status).
		Set("notes", existing.Notes).
		Set("dedup_key", customer.DedupKey(existing.Name, existing.Email, existing.Phone)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(customerColumns, ", ")).
		ToSql()
	if err != nil {
		return customer.Customer{}, fmt.Errorf("build update query: %w", err)
	}

	updated, err := parseCustomerRow(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return customer.Customer{}, apperror.ErrCustomerNotFound
	}
	if err != nil {
		return customer.Customer{}, fmt.Errorf("update customer: %w", err)
	}
	return updated, nil
}

// Stats aggregates orders matched by the customer's dedup contact: phone when
// the customer has one, name otherwise. Computed per read, never cached.
func (r *PgCustomerRepo) Stats(ctx context.Context, c customer.Customer) (customer.Stats, error) {
	q := r.builder.Select("COUNT(*)", "COALESCE(SUM(total), 0)", "MAX(created_at)").From("orders")
	if c.Phone != "" {
		q = q.Where(squirrel.Eq{"phone": c.Phone})
	} else {
		q = q.Where(squirrel.Eq{"customer_name": c.Name})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return customer.Stats{}, fmt.Errorf("build stats query: %w", err)
	}

	var stats customer.Stats
	if err := r.db.QueryRow(ctx, query, args...).Scan(&stats.TotalOrders, &stats.TotalSpent, &stats.LastOrderDate); err != nil {
		return customer.Stats{}, fmt.Errorf("aggregate orders: %w", err)
	}
	return stats, nil
}

func (r *PgCustomerRepo) DistinctOrderContacts(ctx context.Context) ([]customer.Contact, error) {
	query, _, err := r.builder.Select("DISTINCT customer_name", "phone").From("orders").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build contacts query: %w", err)
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query order contacts: %w", err)
	}
	defer rows.Close()

	var contacts []customer.Contact
	for rows.Next() {
		var c customer.Contact
		if err := rows.Scan(&c.Name, &c.Phone); err != nil {
			return nil, fmt.Errorf("scan contact row: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contact rows: %w", err)
	}
	return contacts, nil
}

func (r *PgCustomerRepo) applyFilter(query squirrel.SelectBuilder, q *customer.CustomersQuery) squirrel.SelectBuilder {
	if len(q.Statuses) > 0 {
		query = query.Where(squirrel.Eq{"status": q.Statuses})
	}
	if q.Pagination != nil {
		offset := (q.Pagination.Page - 1) * q.Pagination.Limit
		query = query.Limit(uint64(q.Pagination.Limit)).Offset(uint64(offset))
	}
	return query
}

func parseCustomerRow(row pgx.Row) (customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Status, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return customer.Customer{}, err
	}
	return c, nil
}
