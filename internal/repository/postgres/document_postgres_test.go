package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arsip/internal/model"
	"arsip/internal/repository"
)

var documentCols = []string{
	"id", "file_path", "file_name", "file_size", "page_count", "document_date",
	"category_id", "c_name", "c_slug", "parent_id", "p_name", "p_slug", "icon", "full_path",
	"created_by", "created_by_name",
	"created_at", "updated_at", "version", "is_deleted", "deleted_at",
	"employee_id", "e_name", "e_nip", "destination", "destination_other", "start_date", "end_date", "spd_created_at",
}

func belanjaanRow(id string, date time.Time) []driver.Value {
	now := time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, "uploads/belanjaan/atk/2024/01-Januari/ATK_2024-01-15.pdf", "ATK_2024-01-15.pdf", int64(2048), 3, date,
		int64(2), "ATK", "atk", int64(1), "Belanjaan", "belanjaan", "fa-pencil-alt", "belanjaan/atk",
		"user-1", "Budi Santoso",
		now, now, 1, false, nil,
		nil, nil, nil, nil, nil, nil, nil, nil,
	}
}

func spdRow(id string, date time.Time) []driver.Value {
	now := time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, "uploads/spd/2024/01-Januari/SPD_Ani_Jakarta_2024-01-15.pdf", "SPD_Ani_Jakarta_2024-01-15.pdf", int64(4096), 2, date,
		int64(7), "SPD", "spd", nil, "", "", "fa-plane", "spd",
		"user-1", "Budi Santoso",
		now, now, 2, false, nil,
		int64(9), "Ani", "198501012005011001", "jakarta", "", date, date.AddDate(0, 0, 2), now,
	}
}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	doc := &model.Document{
		ID:           "doc-1",
		FilePath:     "uploads/belanjaan/atk/2024/01-Januari/ATK_2024-01-15.pdf",
		FileName:     "ATK_2024-01-15.pdf",
		FileSize:     2048,
		PageCount:    3,
		DocumentDate: date,
		CategoryID:   2,
		CreatedBy:    "user-1",
		Version:      1,
	}
	created := time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO documents").
			WithArgs(doc.ID, doc.FilePath, doc.FileName, doc.FileSize, doc.PageCount, doc.DocumentDate, doc.CategoryID, doc.CreatedBy, doc.Version).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, created))

		require.NoError(t, repo.Create(context.Background(), doc))
		assert.Equal(t, created, doc.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate path", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO documents").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.Create(context.Background(), doc)
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("belanjaan", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM documents d (.+) WHERE d.id = \$1 AND d.is_deleted = false`).
			WithArgs("doc-1").
			WillReturnRows(sqlmock.NewRows(documentCols).AddRow(belanjaanRow("doc-1", date)...))

		doc, err := repo.FindByID(ctx, "doc-1", false)
		require.NoError(t, err)
		assert.Equal(t, "ATK", doc.Category.Name)
		assert.Equal(t, "belanjaan/atk", doc.Category.FullPath)
		require.NotNil(t, doc.Category.ParentID)
		assert.Equal(t, int64(1), *doc.Category.ParentID)
		assert.Nil(t, doc.SPD)
		assert.Nil(t, doc.DeletedAt)
	})

	t.Run("spd detail joined", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM documents d (.+) WHERE d.id = \$1$`).
			WithArgs("doc-2").
			WillReturnRows(sqlmock.NewRows(documentCols).AddRow(spdRow("doc-2", date)...))

		doc, err := repo.FindByID(ctx, "doc-2", true)
		require.NoError(t, err)
		require.NotNil(t, doc.SPD)
		assert.Equal(t, "Ani", doc.SPD.EmployeeName)
		assert.Equal(t, "Jakarta", doc.SPD.DestinationLabel)
		assert.True(t, doc.IsSPD())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM documents d`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing", false)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, doc)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	f := repository.DocumentFilter{CategoryID: 1, DateFrom: &from, Search: "50%"}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM documents d (.+) WHERE d.is_deleted = false AND \(c.id = \$1 OR c.parent_id = \$2\) AND d.document_date >= \$3 AND \(c.name ILIKE \$4`).
		WithArgs(int64(1), int64(1), from, `%50\%%`, `%50\%%`, `%50\%%`, `%50\%%`, `%50\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	mock.ExpectQuery(`SELECT (.+) ORDER BY d.document_date DESC, d.created_at DESC LIMIT \$9 OFFSET \$10`).
		WithArgs(int64(1), int64(1), from, `%50\%%`, `%50\%%`, `%50\%%`, `%50\%%`, `%50\%%`, 5, 10).
		WillReturnRows(sqlmock.NewRows(documentCols).
			AddRow(belanjaanRow("doc-1", from)...).
			AddRow(belanjaanRow("doc-2", from)...))

	res, err := repo.List(context.Background(), f, repository.PageQuery{Limit: 5, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 12, res.Total)
	assert.Len(t, res.Items, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_List_SPDFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	f := repository.DocumentFilter{SPDOnly: true, EmployeeID: 9, Destination: "jakarta"}

	mock.ExpectQuery(`SELECT COUNT\(\*\) (.+) \(c.slug = \$1 OR p.slug = \$2\) AND s.employee_id = \$3 AND \(s.destination = \$4 OR s.destination_other ILIKE \$5\)`).
		WithArgs("spd", "spd", int64(9), "jakarta", "%jakarta%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`LIMIT \$6 OFFSET \$7`).
		WithArgs("spd", "spd", int64(9), "jakarta", "%jakarta%", 10, 0).
		WillReturnRows(sqlmock.NewRows(documentCols))

	res, err := repo.List(context.Background(), f, repository.PageQuery{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	doc := &model.Document{ID: "doc-1", FilePath: "p", FileName: "n", CategoryID: 2, Version: 2}

	mock.ExpectExec("UPDATE documents").WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Update(context.Background(), doc))

	mock.ExpectExec("UPDATE documents").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Update(context.Background(), doc), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_SoftDeleteRestore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	at := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE documents SET is_deleted = true`).
		WithArgs("doc-1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.SoftDelete(context.Background(), "doc-1", at))

	mock.ExpectExec(`UPDATE documents SET is_deleted = true`).
		WithArgs("doc-1", at).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.SoftDelete(context.Background(), "doc-1", at), sql.ErrNoRows)

	mock.ExpectExec(`UPDATE documents SET is_deleted = false, deleted_at = NULL`).
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Restore(context.Background(), "doc-1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_PurgeQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	row := belanjaanRow("doc-1", cutoff)
	row[19] = true
	row[20] = cutoff.AddDate(0, 0, -3)

	mock.ExpectQuery(`WHERE d.is_deleted = true AND d.deleted_at < \$1`).
		WithArgs(cutoff).
		WillReturnRows(sqlmock.NewRows(documentCols).AddRow(row...))
	mock.ExpectExec(`DELETE FROM documents WHERE id = \$1`).
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	docs, err := repo.ListDeletedBefore(context.Background(), cutoff)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.True(t, docs[0].IsDeleted)
	require.NotNil(t, docs[0].DeletedAt)

	require.NoError(t, repo.HardDelete(context.Background(), "doc-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("conn reset"))

	_, err = NewDocumentPostgres(db).List(context.Background(), repository.DocumentFilter{}, repository.PageQuery{Limit: 10})
	assert.EqualError(t, err, "conn reset")
}
