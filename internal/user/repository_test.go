package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users \(name, email, password_hash, role\)`).
			WithArgs("Ann", "ann@x.com", "hash", RoleCustomer).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, time.Now()))

		u := &User{Name: "Ann", Email: "ann@x.com", PasswordHash: "hash", Role: RoleCustomer}
		err := repo.Create(ctx, u)
		assert.NoError(t, err)
		assert.Equal(t, uint(1), u.ID)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("Ann", "ann@x.com", "hash", RoleCustomer).
			WillReturnError(&pq.Error{Code: "23505"})

		u := &User{Name: "Ann", Email: "ann@x.com", PasswordHash: "hash", Role: RoleCustomer}
		err := repo.Create(ctx, u)
		assert.ErrorIs(t, err, ErrEmailExists)
	})
}

func TestRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at"}).
			AddRow(2, "Bea", "bea@x.com", "hash", "admin", time.Now())

		mock.ExpectQuery(`SELECT id, name, email, password_hash, role, created_at FROM users WHERE email = \$1`).
			WithArgs("bea@x.com").
			WillReturnRows(rows)

		u, err := repo.GetByEmail(ctx, "bea@x.com")
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, u.Role)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
			WithArgs("missing@x.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at"}))

		_, err := repo.GetByEmail(ctx, "missing@x.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at"}).
			AddRow(5, "Cid", "cid@x.com", "hash", "worker", time.Now())

		mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
			WithArgs(uint(5)).
			WillReturnRows(rows)

		u, err := repo.GetByID(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, "Cid", u.Name)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
			WithArgs(uint(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at"}))

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
