package order_repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"mebelmarket/internal/controller/apperror"
	"mebelmarket/internal/domain/order"
	"mebelmarket/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var orderColumns = []string{
	"id", "customer_name", "phone", "address", "items", "total",
	"status", "payment_status", "payment_method", "card_number",
	"tracking_number", "admin_notes", "created_at", "updated_at",
}

// PgOrderRepo persists orders in PostgreSQL. Every write is a single
// statement; no cross-table transaction is needed on this path.
type PgOrderRepo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

func NewPgOrderRepo(pg *postgres.Postgres) *PgOrderRepo {
	return &PgOrderRepo{db: pg.Pool, builder: pg.Builder}
}

func (r *PgOrderRepo) Create(ctx context.Context, o order.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	query, args, err := r.builder.Insert("orders").
		Columns(orderColumns...).
		Values(
			o.ID, o.CustomerName, o.Phone, o.Address, items, o.Total,
			o.Status, o.PaymentStatus, o.PaymentMethod, o.CardNumber,
			o.TrackingNumber, o.AdminNotes, o.CreatedAt, o.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *PgOrderRepo) GetOrders(ctx context.Context, q *order.OrdersQuery) ([]order.Order, error) {
	query, args, err := r.applyFilter(r.builder.Select(orderColumns...).From("orders"), q).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build orders query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	return parseOrderRows(rows)
}

func (r *PgOrderRepo) CountOrders(ctx context.Context, q *order.OrdersQuery) (int64, error) {
	// count uses the same filter as the page, minus pagination
	filtered := *q
	filtered.Pagination = nil

	query, args, err := r.applyFilter(r.builder.Select("COUNT(*)").From("orders"), &filtered).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return total, nil
}

func (r *PgOrderRepo) UpdateFields(ctx context.Context, id string, update order.StatusUpdate) (order.Order, error) {
	q := r.builder.Update("orders").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(orderColumns, ", "))

	if update.Status != nil {
		q = q.Set("status", *update.Status)
	}
	if update.PaymentStatus != nil {
		q = q.Set("payment_status", *update.PaymentStatus)
	}
	if update.TrackingNumber != nil {
		q = q.Set("tracking_number", *update.TrackingNumber)
	}
	if update.AdminNotes != nil {
		q = q.Set("admin_notes", *update.AdminNotes)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("build update query: %w", err)
	}

	o, err := parseOrderRow(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return order.Order{}, apperror.ErrOrderNotFound
	}
	if err != nil {
		return order.Order{}, fmt.Errorf("update order: %w", err)
	}
	return o, nil
}

func (r *PgOrderRepo) Delete(ctx context.Context, id string) error {
	query, args, err := r.builder.Delete("orders").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrOrderNotFound
	}
	return nil
}

func (r *PgOrderRepo) applyFilter(query squirrel.SelectBuilder, q *order.OrdersQuery) squirrel.SelectBuilder {
	if len(q.IDs) > 0 {
		query = query.Where(squirrel.Eq{"id": q.IDs})
	}
	if len(q.Statuses) > 0 {
		query = query.Where(squirrel.Eq{"status": q.Statuses})
	}
	if q.Phone != "" {
		query = query.Where(squirrel.Eq{"phone": q.Phone})
	}
	if q.Pagination != nil {
		offset := (q.Pagination.Page - 1) * q.Pagination.Limit
		query = query.Limit(uint64(q.Pagination.Limit)).Offset(uint64(offset))
	}
	return query
}

func parseOrderRow(row pgx.Row) (order.Order, error) {
	var (
		o        order.Order
		rawItems []byte
	)
	err := row.Scan(
		&o.ID, &o.CustomerName, &o.Phone, &o.Address, &rawItems, &o.Total,
		&o.Status, &o.PaymentStatus, &o.PaymentMethod, &o.CardNumber,
		&o.TrackingNumber, &o.AdminNotes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return order.Order{}, err
	}

	if err := json.Unmarshal(rawItems, &o.Items); err != nil {
		return order.Order{}, fmt.Errorf("unmarshal items: %w", err)
	}
	return o, nil
}

func parseOrderRows(rows pgx.Rows) ([]order.Order, error) {
	var orders []order.Order
	for rows.Next() {
		o, err := parseOrderRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	return orders, nil
}
