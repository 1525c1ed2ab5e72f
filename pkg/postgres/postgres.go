// Package postgres implements a pgx connection pool wrapper with a shared query builder.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultMaxPoolSize  = 10
	defaultConnTimeout  = 20 * time.Second
	defaultConnAttempts = 5
)

// Executor is the subset of pgx operations shared by pools and transactions.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres holds the connection pool and the statement builder used by repositories.
type Postgres struct {
	maxPoolSize int

	Pool    *pgxpool.Pool
	Builder squirrel.StatementBuilderType
}

// Option configures Postgres.
type Option func(*Postgres)

// MaxPoolSize sets the maximum pool size.
func MaxPoolSize(size int) Option {
	return func(p *Postgres) {
		p.maxPoolSize = size
	}
}

// New creates a connection pool for the given URL.
func New(url string, opts ...Option) (*Postgres, error) {
	pg := &Postgres{
		maxPoolSize: defaultMaxPoolSize,
		Builder:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}

	for _, opt := range opts {
		opt(pg)
	}

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("postgres - New - ParseConfig: %w", err)
	}
	cfg.MaxConns = int32(pg.maxPoolSize)

	ctx, cancel := context.WithTimeout(context.Background(), defaultConnTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres - New - NewWithConfig: %w", err)
	}

	for attempt := 0; attempt < defaultConnAttempts; attempt++ {
		if err = pool.Ping(ctx); err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres - New - Ping: %w", err)
	}

	pg.Pool = pool
	return pg, nil
}

// InTransaction runs fn inside a transaction, committing on nil and rolling back on error.
func (p *Postgres) InTransaction(ctx context.Context, fn func(tx Executor) error) error {
	tx, err := p.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Close closes the underlying pool.
func (p *Postgres) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}
