package repository

import (
	"context"

	"arsip/internal/model"
)

type CategoryRepository interface {
	// List returns every category with its full path and active document count.
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (*model.Category, error)
	FindBySlug(ctx context.Context, slug string) (*model.Category, error)
}
