package repository

import (
	"context"

	"arsip/internal/model"
)

type UserFilter struct {
	// Search matches username or full name.
	Search  string
	IsStaff *bool
	// IncludeInactive lists deactivated accounts as well.
	IncludeInactive bool
}

type UserRepository interface {
	// Create returns ErrDuplicate when the username is taken.
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, f UserFilter) ([]model.User, error)
	// Update saves profile, role, status and password hash. The username
	// never changes.
	Update(ctx context.Context, u *model.User) error
}
