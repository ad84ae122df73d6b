package service

import (
	"context"

	"arsip/internal/model"
	"arsip/internal/repository"
	"arsip/internal/requestctx"
)

const (
	defaultActivityLimit = 50
	systemActor          = "System"
)

// ActivityService appends and reads the per-document audit trail.
type ActivityService struct {
	repo repository.ActivityRepository
}

func NewActivityService(repo repository.ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// Record stores one entry. Client IP and user agent come from ctx.
func (s *ActivityService) Record(ctx context.Context, documentID string, actor *model.User, action model.ActionType, description string) error {
	if !action.Valid() {
		return FieldError("action_type", "Jenis aktivitas tidak valid")
	}
	client := requestctx.ClientFrom(ctx)
	a := &model.Activity{
		DocumentID:  documentID,
		Action:      action,
		Description: description,
		IPAddress:   client.IP,
		UserAgent:   client.UserAgent,
	}
	if actor != nil {
		id := actor.ID
		a.UserID = &id
	}
	return s.repo.Create(ctx, a)
}

func (s *ActivityService) List(ctx context.Context, documentID string, limit int) ([]model.Activity, error) {
	if limit <= 0 || limit > 500 {
		limit = defaultActivityLimit
	}
	items, err := s.repo.ListByDocument(ctx, documentID, limit)
	if err != nil {
		return nil, err
	}
	// Entries without a live user account are shown as system actions.
	for i := range items {
		if items[i].UserName == "" {
			items[i].UserName = systemActor
		}
	}
	return items, nil
}
