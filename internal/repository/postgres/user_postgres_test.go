package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arsip/internal/model"
	"arsip/internal/repository"
)

func TestUserPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	u := &model.User{ID: "user-1", Username: "admin", PasswordHash: "hash", IsSuperuser: true, IsActive: true}
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("user-1", "admin", "", "hash", false, true, true).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	require.NoError(t, repo.Create(ctx, u))

	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "full_name", "password_hash", "is_staff", "is_superuser", "is_active", "created_at", "updated_at"}).
			AddRow("user-1", "admin", "Administrator", "hash", false, true, true, now, now))
	got, err := repo.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "Administrator", got.DisplayName())

	mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs("nope").WillReturnError(sql.ErrNoRows)
	_, err = repo.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_ListAndUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()
	cols := []string{"id", "username", "full_name", "password_hash", "is_staff", "is_superuser", "is_active", "created_at", "updated_at"}

	staffOnly := true
	mock.ExpectQuery(`FROM users WHERE is_active = true AND \(username ILIKE \$1 OR full_name ILIKE \$2\) AND is_staff = \$3 ORDER BY created_at DESC`).
		WithArgs("%budi%", "%budi%", true).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("user-2", "budi", "Budi Santoso", "hash", true, false, true, now, now))
	list, err := repo.List(ctx, repository.UserFilter{Search: "budi", IsStaff: &staffOnly})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Budi Santoso", list[0].FullName)

	mock.ExpectQuery(`FROM users ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(cols))
	list, err = repo.List(ctx, repository.UserFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Empty(t, list)

	u := &model.User{ID: "user-2", FullName: "Budi", PasswordHash: "new-hash", IsStaff: true, IsActive: false}
	mock.ExpectQuery("UPDATE users").
		WithArgs("user-2", "Budi", "new-hash", true, false, false).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
	require.NoError(t, repo.Update(ctx, u))
	assert.Equal(t, now, u.UpdatedAt)

	mock.ExpectQuery("UPDATE users").WithArgs("gone", "", "", false, false, false).WillReturnError(sql.ErrNoRows)
	assert.ErrorIs(t, repo.Update(ctx, &model.User{ID: "gone"}), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}
