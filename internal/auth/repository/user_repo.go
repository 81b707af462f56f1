package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/durgapur-services/marketplace-backend/internal/auth/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByUID retrieves a user by Firebase UID
func (r *UserRepository) GetByUID(ctx context.Context, uid string) (*domain.User, error) {
	query := `
		SELECT uid, name, email, phone, created_at, updated_at
		FROM users
		WHERE uid = $1
	`

	var user domain.User
	err := r.db.QueryRowContext(ctx, query, uid).Scan(
		&user.UID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Create inserts the profile row written at signup
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (uid, name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	return r.db.QueryRowContext(ctx, query, user.UID, user.Name, user.Email, user.Phone).
		Scan(&user.CreatedAt, &user.UpdatedAt)
}

// Upsert merges user into the stored row, creating it when missing.
// Empty fields keep the stored value.
func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (uid, name, email, phone)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (uid) DO UPDATE
		SET name = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
		    email = COALESCE(NULLIF(EXCLUDED.email, ''), users.email),
		    phone = COALESCE(NULLIF(EXCLUDED.phone, ''), users.phone),
		    updated_at = NOW()
		RETURNING name, email, phone, created_at, updated_at
	`

	return r.db.QueryRowContext(ctx, query, user.UID, user.Name, user.Email, user.Phone).Scan(
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

// UpdateName sets the display name, creating the row when missing.
func (r *UserRepository) UpdateName(ctx context.Context, uid, name string) error {
	return r.Upsert(ctx, &domain.User{UID: uid, Name: name})
}
