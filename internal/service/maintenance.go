package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"arsip/internal/model"
	"arsip/internal/repository"
	"arsip/internal/storage"
)

const defaultPurgeDays = 90

// PurgeOutcome reports what happened to one soft-deleted document.
type PurgeOutcome struct {
	DocumentID string    `json:"document_id"`
	FilePath   string    `json:"file_path"`
	DeletedAt  time.Time `json:"deleted_at"`
	Purged     bool      `json:"purged"`
	Error      string    `json:"error,omitempty"`
}

type PurgeResult struct {
	Cutoff   time.Time      `json:"cutoff"`
	DryRun   bool           `json:"dry_run"`
	Found    int            `json:"found"`
	Purged   int            `json:"purged"`
	Outcomes []PurgeOutcome `json:"outcomes"`
}

// MaintenanceService removes documents that stayed soft-deleted too long.
type MaintenanceService interface {
	// PurgeDeleted deletes the object and then the row for every document
	// soft-deleted more than olderThanDays ago. A dry run only lists them.
	PurgeDeleted(ctx context.Context, actor *model.User, olderThanDays int, dryRun bool) (*PurgeResult, error)
}

type maintenanceService struct {
	docs  repository.DocumentRepository
	store storage.Storage
	log   *zap.Logger
	now   func() time.Time
}

func NewMaintenanceService(d Deps) MaintenanceService {
	d = d.withDefaults()
	return &maintenanceService{docs: d.Documents, store: d.Store, log: d.Log, now: d.Now}
}

func (s *maintenanceService) PurgeDeleted(ctx context.Context, actor *model.User, olderThanDays int, dryRun bool) (*PurgeResult, error) {
	if err := requireWriter(actor); err != nil {
		return nil, err
	}
	if olderThanDays < 0 {
		return nil, FieldError("days", "Jumlah hari tidak boleh negatif")
	}
	if olderThanDays == 0 {
		olderThanDays = defaultPurgeDays
	}

	cutoff := s.now().AddDate(0, 0, -olderThanDays)
	docs, err := s.docs.ListDeletedBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list deleted documents: %w", err)
	}

	res := &PurgeResult{
		Cutoff:   cutoff,
		DryRun:   dryRun,
		Found:    len(docs),
		Outcomes: make([]PurgeOutcome, 0, len(docs)),
	}
	for _, doc := range docs {
		out := PurgeOutcome{DocumentID: doc.ID, FilePath: doc.FilePath}
		if doc.DeletedAt != nil {
			out.DeletedAt = *doc.DeletedAt
		}
		if !dryRun {
			if err := s.purge(ctx, doc); err != nil {
				out.Error = err.Error()
				s.log.Error("purge_failed", zap.String("document_id", doc.ID), zap.Error(err))
			} else {
				out.Purged = true
				res.Purged++
			}
		}
		res.Outcomes = append(res.Outcomes, out)
	}

	s.log.Info("purge_completed",
		zap.Time("cutoff", cutoff),
		zap.Bool("dry_run", dryRun),
		zap.Int("found", res.Found),
		zap.Int("purged", res.Purged),
		zap.String("user_id", actor.ID),
	)
	return res, nil
}

// purge removes the object first so a failure leaves the row for the next run.
func (s *maintenanceService) purge(ctx context.Context, doc model.Document) error {
	ctx, span := tracer.Start(ctx, "archive.purge")
	defer span.End()
	span.SetAttributes(attribute.String("document.id", doc.ID))

	if err := s.store.Delete(ctx, doc.FilePath); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return fmt.Errorf("delete object: %w", err)
	}
	if err := s.docs.HardDelete(ctx, doc.ID); err != nil {
		return fmt.Errorf("delete row: %w", err)
	}
	return nil
}
