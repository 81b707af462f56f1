package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/durgapur-services/marketplace-backend/internal/booking/domain"
	"github.com/durgapur-services/marketplace-backend/internal/storage/postgres"
)

const orderColumns = `id, user_id, user_email, provider_id, admin_uid, provider_name, category, amount, status,
idempotency_key, created_at, updated_at`

type OrderRepository struct {
	db postgres.DB
}

func NewOrderRepository(db postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var status string
	err := row.Scan(&o.ID, &o.UserID, &o.UserEmail, &o.ProviderID, &o.AdminUID, &o.ProviderName, &o.Category,
		&o.Amount, &status, &o.IdempotencyKey, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	return &o, nil
}

func (r *OrderRepository) list(ctx context.Context, q string, arg string) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, q, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Order, 0, 16)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// Create inserts o and fills its timestamps. A duplicate idempotency key for
// the same user returns the existing order with created=false.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, bool, error) {
	const q = `
insert into orders (id, user_id, user_email, provider_id, admin_uid, provider_name, category, amount, status, idempotency_key)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
returning created_at, updated_at`

	err := r.db.QueryRow(ctx, q, o.ID, o.UserID, o.UserEmail, o.ProviderID, o.AdminUID, o.ProviderName,
		o.Category, o.Amount, string(o.Status), o.IdempotencyKey).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err == nil {
		return o, true, nil
	}
	if postgres.IsUniqueViolation(err) && o.IdempotencyKey != "" {
		existing, getErr := r.GetByIdempotencyKey(ctx, o.UserID, o.IdempotencyKey)
		if getErr != nil {
			return nil, false, getErr
		}
		return existing, false, nil
	}
	return nil, false, fmt.Errorf("failed to insert order: %w", err)
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return scanOrder(r.db.QueryRow(ctx, `select `+orderColumns+` from orders where id = $1`, id))
}

func (r *OrderRepository) GetByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Order, error) {
	q := `select ` + orderColumns + ` from orders where user_id = $1 and idempotency_key = $2`
	return scanOrder(r.db.QueryRow(ctx, q, userID, key))
}

// ListByProvider returns a provider's orders, newest first.
func (r *OrderRepository) ListByProvider(ctx context.Context, providerID string) ([]domain.Order, error) {
	q := `select ` + orderColumns + ` from orders where provider_id = $1 order by created_at desc`
	return r.list(ctx, q, providerID)
}

// ListByUser returns a customer's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	q := `select ` + orderColumns + ` from orders where user_id = $1 order by created_at desc`
	return r.list(ctx, q, userID)
}

// ExistsForUserProvider reports whether userID has booked providerID.
func (r *OrderRepository) ExistsForUserProvider(ctx context.Context, userID, providerID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`select exists(select 1 from orders where user_id = $1 and provider_id = $2)`,
		userID, providerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check prior booking: %w", err)
	}
	return exists, nil
}

// UpdateStatus moves order id from status from to status to. It fails with
// ErrInvalidTransition when the stored status is no longer from.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	q := `update orders set status = $3, updated_at = now() where id = $1 and status = $2 returning ` + orderColumns
	o, err := scanOrder(r.db.QueryRow(ctx, q, id, string(from), string(to)))
	if errors.Is(err, domain.ErrOrderNotFound) {
		return nil, domain.ErrInvalidTransition
	}
	return o, err
}
