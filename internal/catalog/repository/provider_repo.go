package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/durgapur-services/marketplace-backend/internal/catalog/domain"
	"github.com/durgapur-services/marketplace-backend/internal/storage/postgres"
)

const providerColumns = `id, admin_uid, admin_email, name, phone, category, sub_category, price,
address, image, rating, views, status, is_verified_partner, created_at, updated_at`

// ProviderRepository stores providers in Postgres.
type ProviderRepository struct {
	db postgres.DB
}

func NewProviderRepository(db postgres.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

func scanProvider(row pgx.Row) (*domain.Provider, error) {
	var p domain.Provider
	var category, status string
	err := row.Scan(&p.ID, &p.AdminUID, &p.AdminEmail, &p.Name, &p.Phone, &category, &p.SubCategory, &p.Price,
		&p.Address, &p.Image, &p.Rating, &p.Views, &status, &p.IsVerifiedPartner, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Category = domain.Category(category)
	p.Status = domain.ProviderStatus(status)
	return &p, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrProviderNotFound
	}
	return err
}

// List returns providers in creation order, restricted to category unless
// it is empty.
func (r *ProviderRepository) List(ctx context.Context, category domain.Category) ([]domain.Provider, error) {
	q := `select ` + providerColumns + ` from providers`
	var args []any
	if category != "" {
		q += ` where category = $1`
		args = append(args, string(category))
	}
	q += ` order by created_at asc, id asc`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Provider, 0, 16)
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan provider: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// ListIDs returns every provider id.
func (r *ProviderRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `select id from providers order by created_at asc`)
	if err != nil {
		return nil, fmt.Errorf("failed to list provider ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ProviderRepository) GetByID(ctx context.Context, id string) (*domain.Provider, error) {
	q := `select ` + providerColumns + ` from providers where id = $1`
	p, err := scanProvider(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// GetByAdminUID returns the provider owned by uid.
func (r *ProviderRepository) GetByAdminUID(ctx context.Context, uid string) (*domain.Provider, error) {
	q := `select ` + providerColumns + ` from providers where admin_uid = $1`
	p, err := scanProvider(r.db.QueryRow(ctx, q, uid))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// Create inserts a provider for draft.AdminUID. A principal owns at most one
// provider; a second attempt fails with ErrProviderExists.
func (r *ProviderRepository) Create(ctx context.Context, d domain.ProviderDraft) (*domain.Provider, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx, `select exists(select 1 from providers where admin_uid = $1)`, d.AdminUID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check existing provider: %w", err)
	}
	if exists {
		return nil, domain.ErrProviderExists
	}

	const q = `
insert into providers (id, admin_uid, admin_email, name, phone, category, sub_category, price, address, image,
	rating, views, status, is_verified_partner)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 0, $12, true)
returning ` + providerColumns

	p, err := scanProvider(tx.QueryRow(ctx, q, uuid.NewString(), d.AdminUID, d.AdminEmail, d.Name, d.Phone,
		string(d.Category), d.SubCategory, d.Price, d.Address, d.Image, domain.DefaultRating, string(domain.StatusOnline)))
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, domain.ErrProviderExists
		}
		return nil, fmt.Errorf("failed to insert provider: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit provider: %w", err)
	}
	return p, nil
}

// Update writes the settings fields.
func (r *ProviderRepository) Update(ctx context.Context, id string, u domain.ProviderUpdate) (*domain.Provider, error) {
	const q = `
update providers
set name = $2, price = $3, category = $4, sub_category = $5, address = $6, updated_at = now()
where id = $1
returning ` + providerColumns

	p, err := scanProvider(r.db.QueryRow(ctx, q, id, u.Name, u.Price, string(u.Category), u.SubCategory, u.Address))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// UpdateContact syncs the owner's profile name and phone onto the provider.
// Empty values leave the column unchanged.
func (r *ProviderRepository) UpdateContact(ctx context.Context, id, name, phone string) error {
	const q = `
update providers
set name = coalesce(nullif($2, ''), name), phone = coalesce(nullif($3, ''), phone), updated_at = now()
where id = $1`

	ct, err := r.db.Exec(ctx, q, id, name, phone)
	if err != nil {
		return fmt.Errorf("failed to update provider contact: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrProviderNotFound
	}
	return nil
}

func (r *ProviderRepository) SetStatus(ctx context.Context, id string, status domain.ProviderStatus) (*domain.Provider, error) {
	q := `update providers set status = $2, updated_at = now() where id = $1 returning ` + providerColumns
	p, err := scanProvider(r.db.QueryRow(ctx, q, id, string(status)))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *ProviderRepository) SetImage(ctx context.Context, id, url string) error {
	ct, err := r.db.Exec(ctx, `update providers set image = $2, updated_at = now() where id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("failed to update provider image: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrProviderNotFound
	}
	return nil
}

// AddViews adds n flushed views to the stored counter.
func (r *ProviderRepository) AddViews(ctx context.Context, id string, n int64) error {
	_, err := r.db.Exec(ctx, `update providers set views = views + $2 where id = $1`, id, n)
	if err != nil {
		return fmt.Errorf("failed to add views: %w", err)
	}
	return nil
}

const recomputeRating = `
update providers
set rating = coalesce((select round(avg(rating)::numeric, 1) from reviews where reviews.provider_id = providers.id), 5.0)`

// RecomputeRating sets the provider rating to the rounded mean of its
// reviews, or the default when it has none.
func (r *ProviderRepository) RecomputeRating(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, recomputeRating+` where id = $1`, id); err != nil {
		return fmt.Errorf("failed to recompute rating: %w", err)
	}
	return nil
}

// RecomputeAllRatings reconciles every provider and returns the rows touched.
func (r *ProviderRepository) RecomputeAllRatings(ctx context.Context) (int64, error) {
	ct, err := r.db.Exec(ctx, recomputeRating)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile ratings: %w", err)
	}
	return ct.RowsAffected(), nil
}
