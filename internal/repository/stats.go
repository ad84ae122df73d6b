package repository

import (
	"context"
	"time"

	"arsip/internal/model"
)

// StatsRepository runs the aggregate queries behind the dashboard and the
// monthly report. Only active documents are counted.
type StatsRepository interface {
	CountDocuments(ctx context.Context) (int, error)
	// CountInCategory counts documents filed directly under slug.
	CountInCategory(ctx context.Context, slug string) (int, error)
	// CountUnderParent counts documents filed in children of slug.
	CountUnderParent(ctx context.Context, slug string) (int, error)
	// MonthlyCounts buckets document_date by month from since onward.
	MonthlyCounts(ctx context.Context, since time.Time) ([]model.MonthCount, error)
	// CategoryBreakdown counts per child category, largest first.
	CategoryBreakdown(ctx context.Context) ([]model.CategoryCount, error)
	TopUploaders(ctx context.Context, limit int) ([]model.UploaderCount, error)

	// CreatedBetween counts documents created in [from, to), optionally
	// restricted to the tree rooted at slug.
	CreatedBetween(ctx context.Context, from, to time.Time, slug string) (int, error)
	// CreatedByCategory counts documents created in [from, to) per category.
	CreatedByCategory(ctx context.Context, from, to time.Time) ([]model.CategoryCount, error)
}
