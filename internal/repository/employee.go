package repository

import (
	"context"

	"arsip/internal/model"
)

type EmployeeFilter struct {
	Search     string
	Department string
	Position   string
	// IncludeInactive lists deactivated employees as well.
	IncludeInactive bool
}

type EmployeeRepository interface {
	// Create returns ErrDuplicate when the NIP is taken.
	Create(ctx context.Context, e *model.Employee) error
	FindByID(ctx context.Context, id int64) (*model.Employee, error)
	// List orders by name and annotates SPDCount.
	List(ctx context.Context, f EmployeeFilter) ([]model.Employee, error)
	Update(ctx context.Context, e *model.Employee) error
	SetActive(ctx context.Context, id int64, active bool) error
	Stats(ctx context.Context) (*model.EmployeeStats, error)
}
