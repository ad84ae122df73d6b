package repository

import (
	"context"
	"time"

	"arsip/internal/model"
)

// DocumentFilter narrows List. Zero values mean "no constraint". Soft
// deleted rows are always excluded.
type DocumentFilter struct {
	// CategoryID matches the category itself and its direct children.
	CategoryID int64
	DateFrom   *time.Time
	DateTo     *time.Time
	// Search matches category name, file name, employee name and destination.
	Search string
	// SPDOnly restricts to the spd tree.
	SPDOnly     bool
	EmployeeID  int64
	Destination string
	CreatedBy   string
}

// DocumentRepository reads documents joined with their category, creator
// and SPD detail.
type DocumentRepository interface {
	// Create inserts the row and fills CreatedAt/UpdatedAt from the database.
	Create(ctx context.Context, doc *model.Document) error

	// FindByID returns sql.ErrNoRows when missing, or when soft deleted and
	// includeDeleted is false.
	FindByID(ctx context.Context, id string, includeDeleted bool) (*model.Document, error)

	List(ctx context.Context, f DocumentFilter, pq PageQuery) (*PageResult[model.Document], error)

	// Update persists path, name, date, category and version.
	Update(ctx context.Context, doc *model.Document) error

	// SoftDelete flags an active row. It returns sql.ErrNoRows when no active row matched.
	SoftDelete(ctx context.Context, id string, at time.Time) error

	Restore(ctx context.Context, id string) error

	// ListDeletedBefore returns soft-deleted rows whose deleted_at precedes cutoff.
	ListDeletedBefore(ctx context.Context, cutoff time.Time) ([]model.Document, error)

	// HardDelete removes the row; activities and SPD detail cascade.
	HardDelete(ctx context.Context, id string) error
}
