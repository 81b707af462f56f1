package repository

import (
	"context"
	"fmt"

	"github.com/durgapur-services/marketplace-backend/internal/reviews/domain"
	"github.com/durgapur-services/marketplace-backend/internal/storage/postgres"
)

type ReviewRepository struct {
	db postgres.DB
}

func NewReviewRepository(db postgres.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts rv and fills CreatedAt.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	const q = `
insert into reviews (id, provider_id, user_id, user_name, rating, comment)
values ($1, $2, $3, $4, $5, $6)
returning created_at`

	err := r.db.QueryRow(ctx, q, rv.ID, rv.ProviderID, rv.UserID, rv.UserName, rv.Rating, rv.Comment).
		Scan(&rv.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

// ListByProvider returns a provider's reviews, newest first.
func (r *ReviewRepository) ListByProvider(ctx context.Context, providerID string) ([]domain.Review, error) {
	const q = `
select id, provider_id, user_id, user_name, rating, comment, created_at
from reviews
where provider_id = $1
order by created_at desc`

	rows, err := r.db.Query(ctx, q, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Review, 0, 16)
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ProviderID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
