package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/durgapur-services/marketplace-backend/internal/reviews/domain"
)

func TestReviewRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReviewRepository(mock)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`insert into reviews`).
		WithArgs("r1", "p1", "u1", "Asha", 5, "Quick and neat").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	rv := &domain.Review{ID: "r1", ProviderID: "p1", UserID: "u1", UserName: "Asha", Rating: 5, Comment: "Quick and neat"}
	require.NoError(t, repo.Create(context.Background(), rv))
	assert.Equal(t, now, rv.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByProvider(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReviewRepository(mock)
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{"id", "provider_id", "user_id", "user_name", "rating", "comment", "created_at"}).
		AddRow("r2", "p1", "u2", "Bikash", 4, "Good", now).
		AddRow("r1", "p1", "u1", "Asha", 5, "Great", now.Add(-time.Hour))

	mock.ExpectQuery(`from reviews`).
		WithArgs("p1").
		WillReturnRows(rows)

	got, err := repo.ListByProvider(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bikash", got[0].UserName)
	assert.Equal(t, 5, got[1].Rating)
}

func TestReviewRepository_ListError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReviewRepository(mock)
	mock.ExpectQuery(`from reviews`).WillReturnError(errors.New("connection reset"))

	_, err = repo.ListByProvider(context.Background(), "p1")
	assert.ErrorContains(t, err, "connection reset")
}
