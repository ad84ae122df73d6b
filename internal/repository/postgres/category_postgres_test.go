package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var categoryCols = []string{"id", "name", "slug", "parent_id", "p_name", "p_slug", "icon", "full_path", "created_at", "document_count"}

func TestCategoryPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM document_categories c (.+) ORDER BY c.parent_id NULLS FIRST, c.name`).
		WillReturnRows(sqlmock.NewRows(categoryCols).
			AddRow(int64(1), "Belanjaan", "belanjaan", nil, "", "", "fa-shopping-cart", "belanjaan", now, 0).
			AddRow(int64(2), "ATK", "atk", int64(1), "Belanjaan", "belanjaan", "fa-pencil-alt", "belanjaan/atk", now, 4))

	cats, err := NewCategoryPostgres(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.False(t, cats[0].HasParent())
	assert.Equal(t, "Belanjaan", cats[1].ParentName)
	assert.Equal(t, 4, cats[1].DocumentCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryPostgres_FindBySlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE c.slug = \$1`).
		WithArgs("spd").
		WillReturnRows(sqlmock.NewRows(categoryCols).
			AddRow(int64(7), "SPD", "spd", nil, "", "", "fa-plane", "spd", time.Now(), 10))

	cat, err := NewCategoryPostgres(db).FindBySlug(context.Background(), "spd")
	require.NoError(t, err)
	assert.True(t, cat.IsSPD())
	assert.NoError(t, mock.ExpectationsWereMet())
}
