package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/durgapur-services/marketplace-backend/internal/auth/domain"
)

func setupUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return NewUserRepository(db), mock, db
}

func TestUserRepository_GetByUID(t *testing.T) {
	repo, mock, db := setupUserRepo(t)
	defer db.Close()

	t.Run("returns user", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`SELECT uid, name, email, phone`).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"uid", "name", "email", "phone", "created_at", "updated_at"}).
				AddRow("u1", "Asha", "asha@mail.in", "9830012345", now, now))

		user, err := repo.GetByUID(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, "Asha", user.Name)
		assert.Equal(t, "9830012345", user.Phone)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to ErrUserNotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT uid, name, email, phone`).
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByUID(context.Background(), "ghost")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_Create(t *testing.T) {
	repo, mock, db := setupUserRepo(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("u1", "Asha", "asha@mail.in", "9830012345").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))

	user := &domain.User{UID: "u1", Name: "Asha", Email: "asha@mail.in", Phone: "9830012345"}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.False(t, user.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateNameMerges(t *testing.T) {
	repo, mock, db := setupUserRepo(t)
	defer db.Close()

	mock.ExpectQuery(`ON CONFLICT \(uid\) DO UPDATE`).
		WithArgs("u1", "Raju", "", "").
		WillReturnRows(sqlmock.NewRows([]string{"name", "email", "phone", "created_at", "updated_at"}).
			AddRow("Raju", "raj@mail.in", "9830012345", time.Now(), time.Now()))

	require.NoError(t, repo.UpdateName(context.Background(), "u1", "Raju"))
	require.NoError(t, mock.ExpectationsWereMet())
}
