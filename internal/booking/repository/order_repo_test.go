package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/durgapur-services/marketplace-backend/internal/booking/domain"
)

var orderCols = []string{"id", "user_id", "user_email", "provider_id", "admin_uid", "provider_name", "category",
	"amount", "status", "idempotency_key", "created_at", "updated_at"}

var fixedTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func addOrder(rows *pgxmock.Rows, id, status string, amount float64) *pgxmock.Rows {
	return rows.AddRow(id, "u1", "u1@mail.in", "p1", "owner", "Raj Electricals", "Electrician",
		amount, status, "", fixedTime, fixedTime)
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestOrderRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)

	o := &domain.Order{ID: "o1", UserID: "u1", UserEmail: "u1@mail.in", ProviderID: "p1", AdminUID: "owner",
		ProviderName: "Raj Electricals", Category: "Electrician", Amount: 450, Status: domain.StatusPaid}

	mock.ExpectQuery(`insert into orders`).
		WithArgs("o1", "u1", "u1@mail.in", "p1", "owner", "Raj Electricals", "Electrician", 450.0, "Paid", "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(fixedTime, fixedTime))

	got, created, err := repo.Create(context.Background(), o)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, fixedTime, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_CreateDuplicateKeyReturnsExisting(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)

	o := &domain.Order{ID: "o2", UserID: "u1", ProviderID: "p1", Amount: 450, Status: domain.StatusPaid, IdempotencyKey: "k1"}

	mock.ExpectQuery(`insert into orders`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectQuery(`from orders where user_id = \$1 and idempotency_key = \$2`).
		WithArgs("u1", "k1").
		WillReturnRows(addOrder(pgxmock.NewRows(orderCols), "o1", "Paid", 450))

	got, created, err := repo.Create(context.Background(), o)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "o1", got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_ListByProvider(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)

	rows := pgxmock.NewRows(orderCols)
	addOrder(rows, "o2", "Accepted", 300)
	addOrder(rows, "o1", "Paid", 450)

	mock.ExpectQuery(`from orders where provider_id = \$1 order by created_at desc`).
		WithArgs("p1").
		WillReturnRows(rows)

	got, err := repo.ListByProvider(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.StatusAccepted, got[0].Status)
	assert.Equal(t, 450.0, got[1].Amount)
}

func TestOrderRepository_ExistsForUserProvider(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)

	mock.ExpectQuery(`select exists`).
		WithArgs("u1", "p1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ExistsForUserProvider(context.Background(), "u1", "p1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)

	mock.ExpectQuery(`update orders set status = \$3`).
		WithArgs("o1", "Paid", "Accepted").
		WillReturnRows(addOrder(pgxmock.NewRows(orderCols), "o1", "Accepted", 450))

	o, err := repo.UpdateStatus(context.Background(), "o1", domain.StatusPaid, domain.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, o.Status)

	// status moved underneath us
	mock.ExpectQuery(`update orders set status = \$3`).
		WithArgs("o1", "Paid", "Accepted").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.UpdateStatus(context.Background(), "o1", domain.StatusPaid, domain.StatusAccepted)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestOrderRepository_GetByIDNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)

	mock.ExpectQuery(`from orders where id = \$1`).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
