package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"arsip/internal/archive"
	"arsip/internal/model"
	"arsip/internal/repository"
	"arsip/internal/storage"
)

// File is the upload body. multipart.File satisfies it.
type File interface {
	io.Reader
	io.ReaderAt
	io.Seeker
}

// UploadFile is a PDF received from a client.
type UploadFile struct {
	Name    string
	Size    int64
	Content File
}

// archiver holds the storage and audit steps shared by the document and
// SPD services.
type archiver struct {
	Deps
	activity *ActivityService
}

func newArchiver(d Deps) *archiver {
	d = d.withDefaults()
	return &archiver{Deps: d, activity: NewActivityService(d.Activities)}
}

// findDocument maps a missing row to ErrNotFound.
func (a *archiver) findDocument(ctx context.Context, id string, includeDeleted bool) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := a.Documents.FindByID(ctx, id, includeDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// inspectPDF validates the upload and counts its pages. Rule violations go
// to verr; only I/O failures are returned.
func (a *archiver) inspectPDF(f UploadFile, verr *ValidationError) (int, error) {
	if f.Content == nil {
		verr.Add("file", "File wajib diunggah")
		return 0, nil
	}
	err := archive.ValidatePDF(f.Name, f.Size, f.Content, a.MaxUploadBytes)
	var tooLarge *archive.FileTooLargeError
	switch {
	case err == nil:
	case errors.Is(err, archive.ErrNotPDFExtension), errors.Is(err, archive.ErrInvalidPDF), errors.As(err, &tooLarge):
		verr.Add("file", err.Error())
		return 0, nil
	default:
		return 0, err
	}

	pages, err := archive.PageCount(f.Content, f.Size)
	if err != nil {
		a.Log.Warn("pdf_page_count_failed", zap.String("file_name", f.Name), zap.Error(err))
		pages = 0
	}
	if _, err := f.Content.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("rewind upload: %w", err)
	}
	return pages, nil
}

func (a *archiver) checkDate(field string, d time.Time, msg error, verr *ValidationError) {
	if d.IsZero() {
		verr.Add(field, "Tanggal wajib diisi")
		return
	}
	if archive.IsFutureDate(d, a.today()) {
		verr.Add(field, msg.Error())
	}
}

var tracer = otel.Tracer("arsip/internal/service")

// storeNew uploads f under the first free variant of the standard path.
func (a *archiver) storeNew(ctx context.Context, categoryPath string, date time.Time, filename string, f UploadFile) (key string, err error) {
	ctx, span := tracer.Start(ctx, "archive.store")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "store failed")
		}
		span.End()
	}()

	key, err = archive.UniqueKey(ctx, archive.UploadPath(categoryPath, date, filename), a.Store.Exists)
	if err != nil {
		return "", fmt.Errorf("pick storage key: %w", err)
	}
	span.SetAttributes(attribute.String("archive.key", key), attribute.Int64("archive.size", f.Size))
	_, err = a.Store.Put(ctx, key, f.Content, storage.PutObjectOptions{
		Size:        f.Size,
		ContentType: "application/pdf",
		Metadata: map[string]string{
			"original-filename": f.Name,
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload to storage: %w", err)
	}
	return key, nil
}

// discard removes an object whose database write failed.
func (a *archiver) discard(ctx context.Context, key string, cause error) error {
	if delErr := a.Store.Delete(ctx, key); delErr != nil {
		a.Log.Error("storage_rollback_failed", zap.String("file_path", key), zap.Error(delErr))
		return fmt.Errorf("db save failed: %v; rollback delete failed: %v", cause, delErr)
	}
	return fmt.Errorf("db save failed: %w", cause)
}

// relocate moves the stored file to target when metadata changed. A failed
// move is logged and the document keeps its current path. It reports the
// previous key when the file actually moved.
func (a *archiver) relocate(ctx context.Context, doc *model.Document, target string) (string, bool) {
	if target == doc.FilePath {
		return "", false
	}
	ctx, span := tracer.Start(ctx, "archive.relocate")
	defer span.End()
	span.SetAttributes(attribute.String("document.id", doc.ID))

	current := doc.FilePath
	exists := func(ctx context.Context, key string) (bool, error) {
		if key == current {
			return false, nil
		}
		return a.Store.Exists(ctx, key)
	}
	key, err := archive.UniqueKey(ctx, target, exists)
	if err != nil || key == current {
		if err != nil {
			a.Log.Warn("document_relocate_failed", zap.String("document_id", doc.ID), zap.Error(err))
		}
		return "", false
	}
	if err := a.Store.Move(ctx, current, key); err != nil {
		a.Log.Warn("document_relocate_failed",
			zap.String("document_id", doc.ID),
			zap.String("from", current),
			zap.String("to", key),
			zap.Error(err),
		)
		return "", false
	}
	doc.FilePath = key
	doc.FileName = path.Base(key)
	return current, true
}

// moveBack undoes relocate after the database rejected the update.
func (a *archiver) moveBack(ctx context.Context, doc *model.Document, previous string) {
	if err := a.Store.Move(ctx, doc.FilePath, previous); err != nil {
		a.Log.Error("document_relocate_rollback_failed",
			zap.String("document_id", doc.ID),
			zap.String("file_path", doc.FilePath),
			zap.String("previous_path", previous),
			zap.Error(err),
		)
		return
	}
	doc.FilePath = previous
	doc.FileName = path.Base(previous)
}

// softDelete flags the document and records the activity in one transaction.
func (a *archiver) softDelete(ctx context.Context, actor *model.User, doc *model.Document) error {
	now := a.Now()
	err := a.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := a.Documents.SoftDelete(ctx, doc.ID, now); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		return a.activity.Record(ctx, doc.ID, actor, model.ActionDelete,
			fmt.Sprintf("Dokumen %s dihapus", archive.DisplayName(doc)))
	})
	if err != nil {
		return err
	}
	a.invalidate(ctx)
	a.Log.Info("document_deleted", zap.String("document_id", doc.ID), zap.String("user_id", actor.ID))
	return nil
}

// invalidate drops cached aggregates after a write. Cache errors only log.
func (a *archiver) invalidate(ctx context.Context) {
	if err := a.Cache.Del(ctx, cacheKeyDashboard, cacheKeyCategories); err != nil {
		a.Log.Warn("cache_invalidate_failed", zap.Error(err))
	}
}

func (a *archiver) list(ctx context.Context, f repository.DocumentFilter, p PageParams) (*DocumentListResult, error) {
	p = p.normalize()
	res, err := a.Documents.List(ctx, f, p.query())
	if err != nil {
		return nil, err
	}
	return newListResult(res, p), nil
}
