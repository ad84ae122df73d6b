package postgres

import (
	"context"
	"database/sql"
	"time"

	"arsip/internal/archive"
	"arsip/internal/database"
	"arsip/internal/model"
	"arsip/internal/repository"
)

// DocumentPostgres is the PostgreSQL implementation of repository.DocumentRepository.
type DocumentPostgres struct {
	db *sql.DB
}

func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `
	d.id, d.file_path, d.file_name, d.file_size, d.page_count, d.document_date,
	d.category_id, c.name, c.slug, c.parent_id, COALESCE(p.name, ''), COALESCE(p.slug, ''), c.icon, COALESCE(cp.full_path, c.slug),
	d.created_by, COALESCE(NULLIF(u.full_name, ''), u.username),
	d.created_at, d.updated_at, d.version, d.is_deleted, d.deleted_at,
	s.employee_id, e.name, e.nip, s.destination, s.destination_other, s.start_date, s.end_date, s.created_at`

const documentJoins = `
	FROM documents d
	JOIN document_categories c ON c.id = d.category_id
	LEFT JOIN document_categories p ON p.id = c.parent_id
	LEFT JOIN category_paths cp ON cp.id = c.id
	JOIN users u ON u.id = d.created_by
	LEFT JOIN spd_documents s ON s.document_id = d.id
	LEFT JOIN employees e ON e.id = s.employee_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d          model.Document
		parentID   sql.NullInt64
		deletedAt  sql.NullTime
		employeeID sql.NullInt64
		empName    sql.NullString
		empNIP     sql.NullString
		dest       sql.NullString
		destOther  sql.NullString
		startDate  sql.NullTime
		endDate    sql.NullTime
		spdCreated sql.NullTime
	)
	err := row.Scan(
		&d.ID, &d.FilePath, &d.FileName, &d.FileSize, &d.PageCount, &d.DocumentDate,
		&d.CategoryID, &d.Category.Name, &d.Category.Slug, &parentID, &d.Category.ParentName, &d.Category.ParentSlug, &d.Category.Icon, &d.Category.FullPath,
		&d.CreatedBy, &d.CreatedByName,
		&d.CreatedAt, &d.UpdatedAt, &d.Version, &d.IsDeleted, &deletedAt,
		&employeeID, &empName, &empNIP, &dest, &destOther, &startDate, &endDate, &spdCreated,
	)
	if err != nil {
		return nil, err
	}

	d.Category.ID = d.CategoryID
	if parentID.Valid {
		v := parentID.Int64
		d.Category.ParentID = &v
	}
	d.DeletedAt = nullTime(deletedAt)

	if employeeID.Valid {
		d.SPD = &model.SPDDocument{
			DocumentID:       d.ID,
			EmployeeID:       employeeID.Int64,
			EmployeeName:     empName.String,
			EmployeeNIP:      empNIP.String,
			Destination:      dest.String,
			DestinationOther: destOther.String,
			DestinationLabel: archive.DestinationLabel(dest.String, destOther.String),
			StartDate:        startDate.Time,
			EndDate:          endDate.Time,
			CreatedAt:        spdCreated.Time,
		}
	}
	return &d, nil
}

func (r *DocumentPostgres) conn(ctx context.Context) database.DBTX {
	return database.Conn(ctx, r.db)
}

func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) error {
	const q = `
		INSERT INTO documents (id, file_path, file_name, file_size, page_count, document_date, category_id, created_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := r.conn(ctx).QueryRowContext(ctx, q,
		doc.ID,
		doc.FilePath,
		doc.FileName,
		doc.FileSize,
		doc.PageCount,
		doc.DocumentDate,
		doc.CategoryID,
		doc.CreatedBy,
		doc.Version,
	).Scan(&doc.CreatedAt, &doc.UpdatedAt)
	return mapWriteErr(err)
}

func (r *DocumentPostgres) FindByID(ctx context.Context, id string, includeDeleted bool) (*model.Document, error) {
	q := `SELECT` + documentColumns + documentJoins + ` WHERE d.id = $1`
	if !includeDeleted {
		q += ` AND d.is_deleted = false`
	}
	return scanDocument(r.conn(ctx).QueryRowContext(ctx, q, id))
}

func buildDocumentFilter(f repository.DocumentFilter) *filterBuilder {
	b := &filterBuilder{}
	b.add("d.is_deleted = false")
	if f.CategoryID > 0 {
		b.add("(c.id = ? OR c.parent_id = ?)", f.CategoryID, f.CategoryID)
	}
	if f.DateFrom != nil {
		b.add("d.document_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		b.add("d.document_date <= ?", *f.DateTo)
	}
	if f.SPDOnly {
		b.add("(c.slug = ? OR p.slug = ?)", model.CategorySlugSPD, model.CategorySlugSPD)
	}
	if f.EmployeeID > 0 {
		b.add("s.employee_id = ?", f.EmployeeID)
	}
	if f.Destination != "" {
		b.add("(s.destination = ? OR s.destination_other ILIKE ?)", f.Destination, containsPattern(f.Destination))
	}
	if f.CreatedBy != "" {
		b.add("d.created_by = ?", f.CreatedBy)
	}
	if f.Search != "" {
		pat := containsPattern(f.Search)
		b.add("(c.name ILIKE ? OR d.file_name ILIKE ? OR e.name ILIKE ? OR s.destination ILIKE ? OR s.destination_other ILIKE ?)",
			pat, pat, pat, pat, pat)
	}
	return b
}

// List returns one page ordered by document date, newest first.
func (r *DocumentPostgres) List(ctx context.Context, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	b := buildDocumentFilter(f)
	conn := r.conn(ctx)

	var total int
	qCount := `SELECT COUNT(*)` + documentJoins + b.where()
	if err := conn.QueryRowContext(ctx, qCount, b.args...).Scan(&total); err != nil {
		return nil, err
	}

	where := b.where()
	limit := b.next(pq.Limit)
	offset := b.next(pq.Offset)
	qList := `SELECT` + documentColumns + documentJoins + where +
		` ORDER BY d.document_date DESC, d.created_at DESC LIMIT ` + limit + ` OFFSET ` + offset

	rows, err := conn.QueryContext(ctx, qList, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

func (r *DocumentPostgres) Update(ctx context.Context, doc *model.Document) error {
	const q = `
		UPDATE documents
		SET file_path = $2, file_name = $3, document_date = $4, category_id = $5, version = $6, updated_at = $7
		WHERE id = $1 AND is_deleted = false
	`
	res, err := r.conn(ctx).ExecContext(ctx, q,
		doc.ID,
		doc.FilePath,
		doc.FileName,
		doc.DocumentDate,
		doc.CategoryID,
		doc.Version,
		doc.UpdatedAt,
	)
	if err != nil {
		return mapWriteErr(err)
	}
	return expectOneRow(res)
}

func (r *DocumentPostgres) SoftDelete(ctx context.Context, id string, at time.Time) error {
	const q = `
		UPDATE documents SET is_deleted = true, deleted_at = $2, updated_at = $2
		WHERE id = $1 AND is_deleted = false
	`
	res, err := r.conn(ctx).ExecContext(ctx, q, id, at)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *DocumentPostgres) Restore(ctx context.Context, id string) error {
	const q = `
		UPDATE documents SET is_deleted = false, deleted_at = NULL, updated_at = now()
		WHERE id = $1 AND is_deleted = true
	`
	res, err := r.conn(ctx).ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *DocumentPostgres) ListDeletedBefore(ctx context.Context, cutoff time.Time) ([]model.Document, error) {
	q := `SELECT` + documentColumns + documentJoins +
		` WHERE d.is_deleted = true AND d.deleted_at < $1 ORDER BY d.deleted_at`
	rows, err := r.conn(ctx).QueryContext(ctx, q, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}

func (r *DocumentPostgres) HardDelete(ctx context.Context, id string) error {
	_, err := r.conn(ctx).ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	return err
}
