package repository

import (
	"context"

	"arsip/internal/model"
)

type ActivityRepository interface {
	Create(ctx context.Context, a *model.Activity) error
	// ListByDocument returns newest first.
	ListByDocument(ctx context.Context, documentID string, limit int) ([]model.Activity, error)
}
