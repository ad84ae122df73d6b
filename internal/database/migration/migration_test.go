package migration

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"arsip/internal/logger"
)

const sentinelQuery = `SELECT to_regclass\('public.document_activities'\) IS NOT NULL`

func expectSeed(mock sqlmock.Sqlmock) {
	rows := []struct {
		slug   string
		parent any
	}{
		{"belanjaan", nil},
		{"atk", "belanjaan"},
		{"konsumsi", "belanjaan"},
		{"bbm", "belanjaan"},
		{"pemeliharaan", "belanjaan"},
		{"belanjaan-lainnya", "belanjaan"},
		{"spd", nil},
	}
	for _, r := range rows {
		mock.ExpectExec("INSERT INTO document_categories").
			WithArgs(sqlmock.AnyArg(), r.slug, r.parent, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
}

func TestEnsureMigrated_FreshDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(sentinelQuery).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	for range steps {
		mock.ExpectExec(".+").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	expectSeed(mock)

	var buf bytes.Buffer
	err = EnsureMigrated(context.Background(), db, logger.NewWithWriter(&buf, time.UTC), "db.local")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, buf.String(), `"msg":"db_migration_success"`)
	assert.Contains(t, buf.String(), `"categories_seeded":7`)
}

func TestEnsureMigrated_ExistingSchemaOnlySeeds(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(sentinelQuery).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	expectSeed(mock)

	var buf bytes.Buffer
	err = EnsureMigrated(context.Background(), db, logger.NewWithWriter(&buf, time.UTC), "db.local")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, buf.String(), "db_migration_skip")
}

func TestEnsureMigrated_StepFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(sentinelQuery).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("CREATE EXTENSION").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("permission denied"))

	var buf bytes.Buffer
	err = EnsureMigrated(context.Background(), db, logger.NewWithWriter(&buf, time.UTC), "db.local")
	assert.ErrorContains(t, err, "migration step create_table_users failed")
	assert.Contains(t, buf.String(), `"migration_step":"create_table_users"`)
}

func TestSeedFileShape(t *testing.T) {
	var seed seedFile
	require.NoError(t, yaml.Unmarshal(seedYAML, &seed))
	require.Len(t, seed.Categories, 2)
	assert.Equal(t, "belanjaan", seed.Categories[0].Slug)
	assert.Len(t, seed.Categories[0].Children, 5)
	assert.Equal(t, "spd", seed.Categories[1].Slug)
}
