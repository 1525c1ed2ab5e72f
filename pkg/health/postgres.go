package health

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresChecker reports whether the orders database answers pings.
type PostgresChecker struct {
	pool *pgxpool.Pool
}

func NewPostgresChecker(pool *pgxpool.Pool) *PostgresChecker {
	return &PostgresChecker{pool: pool}
}

func (c *PostgresChecker) Name() string {
	return "orders-db"
}

func (c *PostgresChecker) Check(ctx context.Context) Result {
	if err := c.pool.Ping(ctx); err != nil {
		return Result{Status: StatusDown, Message: "orders database unreachable: " + err.Error()}
	}
	return Result{Status: StatusUp}
}
