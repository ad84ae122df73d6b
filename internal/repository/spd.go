package repository

import (
	"context"

	"arsip/internal/model"
)

type SPDRepository interface {
	Create(ctx context.Context, spd *model.SPDDocument) error
	Update(ctx context.Context, spd *model.SPDDocument) error
}
