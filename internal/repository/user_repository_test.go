package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"booking-service/internal/model"
	repo "booking-service/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestPostgresUserRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := repo.NewPostgresUserRepository(sqlx.NewDb(db, "sqlmock"))

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`)).
		WithArgs("Ann", "ann@example.com", "hash", model.RoleUser).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id.String(), now, now))

	user, err := r.Create(context.Background(), &model.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "hash", Role: model.RoleUser})
	require.NoError(t, err)
	require.Equal(t, id, user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_CreateDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := repo.NewPostgresUserRepository(sqlx.NewDb(db, "sqlmock"))

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = r.Create(context.Background(), &model.User{Email: "ann@example.com"})
	require.ErrorIs(t, err, repo.ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindByEmail_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := repo.NewPostgresUserRepository(sqlx.NewDb(db, "sqlmock"))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, email, password_hash, role, created_at, updated_at FROM users WHERE email = $1`)).
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	u, err := r.FindByEmail(context.Background(), "missing@example.com")
	require.NoError(t, err)
	require.Nil(t, u)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_UpdateName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := repo.NewPostgresUserRepository(sqlx.NewDb(db, "sqlmock"))
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET name = $1, updated_at = now() WHERE id = $2`)).
		WithArgs("Bob", id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := r.UpdateName(context.Background(), id, "Bob")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
