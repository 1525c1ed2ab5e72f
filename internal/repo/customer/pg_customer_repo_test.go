package customer_repo

import (
	"context"
	"testing"
	"time"

	"mebelmarket/internal/controller/apperror"
	"mebelmarket/internal/domain/customer"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockRepo(t *testing.T) (*PgCustomerRepo, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	repo := &PgCustomerRepo{db: mock, builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
	return repo, mock
}

func customerRow(mock pgxmock.PgxPoolIface, c customer.Customer) *pgxmock.Rows {
	return mock.NewRows(customerColumns).
		AddRow(c.ID, c.Name, c.Email, c.Phone, c.Status, c.Notes, c.CreatedAt, c.UpdatedAt)
}

func TestPgCustomerRepo_Upsert(t *testing.T) {
	repo, mock := mockRepo(t)
	ctx := context.Background()

	c := customer.NewFromContact(customer.Contact{Name: "Ali", Phone: "+998901234567"})

	// the dedup key rides along as an insert value; conflict resolution
	// happens inside the single statement
	mock.ExpectQuery(`INSERT INTO customers .+ ON CONFLICT \(dedup_key\) DO UPDATE SET`).
		WithArgs(c.ID, c.Name, c.Email, c.Phone, c.Status, c.Notes, "+998901234567", c.CreatedAt, c.UpdatedAt).
		WillReturnRows(customerRow(mock, c))

	result, err := repo.Upsert(ctx, c)

	require.NoError(t, err)
	assert.Equal(t, "Ali", result.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgCustomerRepo_Create(t *testing.T) {
	repo, mock := mockRepo(t)
	ctx := context.Background()

	c := customer.NewFromContact(customer.Contact{Name: "Ali", Phone: "+998901234567"})

	t.Run("should insert a new customer", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO customers`).
			WithArgs(c.ID, c.Name, c.Email, c.Phone, c.Status, c.Notes, "+998901234567", c.CreatedAt, c.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, repo.Create(ctx, c))
	})

	t.Run("should map unique violations to ErrCustomerExists", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO customers`).
			WithArgs(c.ID, c.Name, c.Email, c.Phone, c.Status, c.Notes, "+998901234567", c.CreatedAt, c.UpdatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "customers_dedup_key_key"})

		assert.ErrorIs(t, repo.Create(ctx, c), apperror.ErrCustomerExists)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgCustomerRepo_Stats(t *testing.T) {
	repo, mock := mockRepo(t)
	ctx := context.Background()

	t.Run("should aggregate by phone when present", func(t *testing.T) {
		last := time.Now()
		mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(total\), 0\), MAX\(created_at\) FROM orders WHERE phone = \$1`).
			WithArgs("+998901234567").
			WillReturnRows(mock.NewRows([]string{"count", "sum", "max"}).AddRow(int64(3), float64(750000), &last))

		stats, err := repo.Stats(ctx, customer.Customer{Name: "Ali", Phone: "+998901234567"})

		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.TotalOrders)
		assert.Equal(t, float64(750000), stats.TotalSpent)
		require.NotNil(t, stats.LastOrderDate)
	})

	t.Run("should fall back to name matching without a phone", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(total\), 0\), MAX\(created_at\) FROM orders WHERE customer_name = \$1`).
			WithArgs("Dilnoza").
			WillReturnRows(mock.NewRows([]string{"count", "sum", "max"}).AddRow(int64(0), float64(0), nil))

		stats, err := repo.Stats(ctx, customer.Customer{Name: "Dilnoza"})

		require.NoError(t, err)
		assert.Zero(t, stats.TotalOrders)
		assert.Nil(t, stats.LastOrderDate)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgCustomerRepo_Update(t *testing.T) {
	repo, mock := mockRepo(t)
	ctx := context.Background()
	now := time.Now()

	existing := customer.Customer{
		ID: "c-1", Name: "Ali", Phone: "+998901234567",
		Status: customer.StatusActive, CreatedAt: now, UpdatedAt: now,
	}

	t.Run("should recompute the dedup key from merged fields", func(t *testing.T) {
		newPhone := "+998907777777"

		mock.ExpectQuery(`SELECT .+ FROM customers WHERE id = \$1`).
			WithArgs("c-1").
			WillReturnRows(customerRow(mock, existing))

		updated := existing
		updated.Phone = newPhone
		mock.ExpectQuery(`UPDATE customers SET name = \$1, email = \$2, phone = \$3, status = \$4, notes = \$5, dedup_key = \$6, updated_at = NOW\(\) WHERE id = \$7 RETURNING`).
			WithArgs("Ali", "", newPhone, customer.StatusActive, "", newPhone, "c-1").
			WillReturnRows(customerRow(mock, updated))

		result, err := repo.Update(ctx, "c-1", customer.Update{Phone: &newPhone})

		require.NoError(t, err)
		assert.Equal(t, newPhone, result.Phone)
	})

	t.Run("should return ErrCustomerNotFound for unknown id", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .+ FROM customers WHERE id = \$1`).
			WithArgs("missing").
			WillReturnRows(mock.NewRows(customerColumns))

		_, err := repo.Update(ctx, "missing", customer.Update{Notes: new(string)})

		assert.ErrorIs(t, err, apperror.ErrCustomerNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgCustomerRepo_DistinctOrderContacts(t *testing.T) {
	repo, mock := mockRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT DISTINCT customer_name, phone FROM orders`).
		WillReturnRows(mock.NewRows([]string{"customer_name", "phone"}).
			AddRow("Ali", "+998901234567").
			AddRow("Dilnoza", ""))

	contacts, err := repo.DistinctOrderContacts(ctx)

	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, customer.Contact{Name: "Ali", Phone: "+998901234567"}, contacts[0])
	require.NoError(t, mock.ExpectationsWereMet())
}
