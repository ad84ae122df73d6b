package postgres

import (
	"context"
	"database/sql"

	"arsip/internal/database"
	"arsip/internal/model"
	"arsip/internal/repository"
)

type CategoryPostgres struct {
	db *sql.DB
}

func NewCategoryPostgres(db *sql.DB) *CategoryPostgres {
	return &CategoryPostgres{db: db}
}

var _ repository.CategoryRepository = (*CategoryPostgres)(nil)

const categorySelect = `
	SELECT c.id, c.name, c.slug, c.parent_id, COALESCE(p.name, ''), COALESCE(p.slug, ''), c.icon,
	       COALESCE(cp.full_path, c.slug), c.created_at,
	       (SELECT COUNT(*) FROM documents d WHERE d.category_id = c.id AND d.is_deleted = false)
	FROM document_categories c
	LEFT JOIN document_categories p ON p.id = c.parent_id
	LEFT JOIN category_paths cp ON cp.id = c.id`

func scanCategory(row rowScanner) (*model.Category, error) {
	var (
		c        model.Category
		parentID sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &parentID, &c.ParentName, &c.ParentSlug, &c.Icon,
		&c.FullPath, &c.CreatedAt, &c.DocumentCount); err != nil {
		return nil, err
	}
	if parentID.Valid {
		v := parentID.Int64
		c.ParentID = &v
	}
	return &c, nil
}

// List returns roots first, then children, each group by name.
func (r *CategoryPostgres) List(ctx context.Context) ([]model.Category, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx,
		categorySelect+` ORDER BY c.parent_id NULLS FIRST, c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CategoryPostgres) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	return scanCategory(database.Conn(ctx, r.db).QueryRowContext(ctx, categorySelect+` WHERE c.id = $1`, id))
}

func (r *CategoryPostgres) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return scanCategory(database.Conn(ctx, r.db).QueryRowContext(ctx, categorySelect+` WHERE c.slug = $1`, slug))
}
