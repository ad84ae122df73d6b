package postgres

import (
	"context"
	"database/sql"
	"time"

	"arsip/internal/database"
	"arsip/internal/model"
	"arsip/internal/repository"
)

type StatsPostgres struct {
	db *sql.DB
}

func NewStatsPostgres(db *sql.DB) *StatsPostgres {
	return &StatsPostgres{db: db}
}

var _ repository.StatsRepository = (*StatsPostgres)(nil)

func (r *StatsPostgres) count(ctx context.Context, q string, args ...any) (int, error) {
	var n int
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, q, args...).Scan(&n)
	return n, err
}

func (r *StatsPostgres) CountDocuments(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM documents WHERE is_deleted = false`)
}

func (r *StatsPostgres) CountInCategory(ctx context.Context, slug string) (int, error) {
	return r.count(ctx, `
		SELECT COUNT(*)
		FROM documents d JOIN document_categories c ON c.id = d.category_id
		WHERE d.is_deleted = false AND c.slug = $1`, slug)
}

func (r *StatsPostgres) CountUnderParent(ctx context.Context, slug string) (int, error) {
	return r.count(ctx, `
		SELECT COUNT(*)
		FROM documents d
		JOIN document_categories c ON c.id = d.category_id
		JOIN document_categories p ON p.id = c.parent_id
		WHERE d.is_deleted = false AND p.slug = $1`, slug)
}

func (r *StatsPostgres) MonthlyCounts(ctx context.Context, since time.Time) ([]model.MonthCount, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, `
		SELECT date_trunc('month', document_date)::date AS month, COUNT(*)
		FROM documents
		WHERE is_deleted = false AND document_date >= $1
		GROUP BY 1
		ORDER BY 1`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.MonthCount, 0)
	for rows.Next() {
		var mc model.MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, err
		}
		out = append(out, mc)
	}
	return out, rows.Err()
}

func (r *StatsPostgres) categoryCounts(ctx context.Context, q string, args ...any) ([]model.CategoryCount, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.CategoryCount, 0)
	for rows.Next() {
		var cc model.CategoryCount
		if err := rows.Scan(&cc.Name, &cc.DocCount); err != nil {
			return nil, err
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}

func (r *StatsPostgres) CategoryBreakdown(ctx context.Context) ([]model.CategoryCount, error) {
	return r.categoryCounts(ctx, `
		SELECT c.name, COUNT(d.id)
		FROM document_categories c
		LEFT JOIN documents d ON d.category_id = c.id AND d.is_deleted = false
		WHERE c.parent_id IS NOT NULL
		GROUP BY c.id, c.name
		ORDER BY COUNT(d.id) DESC, c.name`)
}

func (r *StatsPostgres) TopUploaders(ctx context.Context, limit int) ([]model.UploaderCount, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, `
		SELECT COALESCE(NULLIF(u.full_name, ''), u.username), COUNT(*)
		FROM documents d JOIN users u ON u.id = d.created_by
		WHERE d.is_deleted = false
		GROUP BY u.id, u.full_name, u.username
		ORDER BY COUNT(*) DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.UploaderCount, 0)
	for rows.Next() {
		var uc model.UploaderCount
		if err := rows.Scan(&uc.FullName, &uc.Count); err != nil {
			return nil, err
		}
		out = append(out, uc)
	}
	return out, rows.Err()
}

func (r *StatsPostgres) CreatedBetween(ctx context.Context, from, to time.Time, slug string) (int, error) {
	if slug == "" {
		return r.count(ctx, `
			SELECT COUNT(*) FROM documents
			WHERE is_deleted = false AND created_at >= $1 AND created_at < $2`, from, to)
	}
	return r.count(ctx, `
		SELECT COUNT(*)
		FROM documents d
		JOIN document_categories c ON c.id = d.category_id
		LEFT JOIN document_categories p ON p.id = c.parent_id
		WHERE d.is_deleted = false AND d.created_at >= $1 AND d.created_at < $2
		  AND (c.slug = $3 OR p.slug = $3)`, from, to, slug)
}

func (r *StatsPostgres) CreatedByCategory(ctx context.Context, from, to time.Time) ([]model.CategoryCount, error) {
	return r.categoryCounts(ctx, `
		SELECT c.name, COUNT(*)
		FROM documents d JOIN document_categories c ON c.id = d.category_id
		WHERE d.is_deleted = false AND d.created_at >= $1 AND d.created_at < $2
		GROUP BY c.name
		ORDER BY COUNT(*) DESC, c.name`, from, to)
}
