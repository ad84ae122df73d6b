package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"arsip/internal/archive"
	"arsip/internal/model"
	"arsip/internal/repository"
	"arsip/internal/storage"
)

type CreateDocumentInput struct {
	CategoryID   int64
	DocumentDate time.Time
	File         UploadFile
}

type UpdateDocumentInput struct {
	CategoryID   int64
	DocumentDate time.Time
}

// OpenedDocument is a document with its content stream. Body must be closed.
type OpenedDocument struct {
	Document    *model.Document
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// DocumentService defines the use cases for archived documents.
type DocumentService interface {
	// Create validates and stores a non-SPD PDF under its generated name and
	// records a create activity. The stored object is removed if the
	// database write fails.
	Create(ctx context.Context, actor *model.User, in CreateDocumentInput) (*model.Document, error)

	// Update changes category and date, moving the file to its new
	// standard location and bumping the version. Zero fields keep their
	// current value.
	Update(ctx context.Context, actor *model.User, id string, in UpdateDocumentInput) (*model.Document, error)

	// Delete soft-deletes; the file stays in storage until purged.
	Delete(ctx context.Context, actor *model.User, id string) error

	Restore(ctx context.Context, actor *model.User, id string) (*model.Document, error)

	Get(ctx context.Context, id string) (*model.Document, error)

	List(ctx context.Context, f repository.DocumentFilter, p PageParams) (*DocumentListResult, error)

	// Open streams the file and records a view or download activity.
	Open(ctx context.Context, actor *model.User, id string, action model.ActionType) (*OpenedDocument, error)

	Activities(ctx context.Context, id string, limit int) ([]model.Activity, error)
}

type documentService struct {
	*archiver
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(d Deps) DocumentService {
	return &documentService{archiver: newArchiver(d)}
}

// loadCategory resolves a non-SPD category or records why it cannot be used.
func (s *documentService) loadCategory(ctx context.Context, id int64, verr *ValidationError) (*model.Category, error) {
	if id <= 0 {
		verr.Add("category_id", "Kategori wajib dipilih")
		return nil, nil
	}
	cat, err := s.Categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			verr.Add("category_id", "Kategori tidak ditemukan")
			return nil, nil
		}
		return nil, err
	}
	if cat.IsSPD() {
		verr.Add("category_id", "Dokumen SPD dikelola melalui menu SPD")
		return nil, nil
	}
	return cat, nil
}

func (s *documentService) Create(ctx context.Context, actor *model.User, in CreateDocumentInput) (*model.Document, error) {
	if err := requireWriter(actor); err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	cat, err := s.loadCategory(ctx, in.CategoryID, verr)
	if err != nil {
		return nil, err
	}
	s.checkDate("document_date", in.DocumentDate, archive.ErrFutureDate, verr)
	pages, err := s.inspectPDF(in.File, verr)
	if err != nil {
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	key, err := s.storeNew(ctx, cat.FullPath, in.DocumentDate, archive.DocumentFilename(*cat, in.DocumentDate), in.File)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		ID:            uuid.New().String(),
		FilePath:      key,
		FileName:      path.Base(key),
		FileSize:      in.File.Size,
		PageCount:     pages,
		DocumentDate:  in.DocumentDate,
		CategoryID:    cat.ID,
		Category:      *cat,
		CreatedBy:     actor.ID,
		CreatedByName: actor.DisplayName(),
		Version:       1,
	}
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Documents.Create(ctx, doc); err != nil {
			return err
		}
		return s.activity.Record(ctx, doc.ID, actor, model.ActionCreate,
			fmt.Sprintf("Dokumen %s dibuat", archive.DisplayName(doc)))
	})
	if err != nil {
		return nil, s.discard(ctx, key, err)
	}

	s.invalidate(ctx)
	s.Log.Info("document_created",
		zap.String("document_id", doc.ID),
		zap.String("file_path", doc.FilePath),
		zap.Int64("file_size", doc.FileSize),
		zap.String("user_id", actor.ID),
	)
	return doc, nil
}

func (s *documentService) Update(ctx context.Context, actor *model.User, id string, in UpdateDocumentInput) (*model.Document, error) {
	if err := requireWriter(actor); err != nil {
		return nil, err
	}
	doc, err := s.findDocument(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if doc.IsSPD() {
		return nil, FieldError("category_id", "Dokumen SPD dikelola melalui menu SPD")
	}
	if in.CategoryID == 0 {
		in.CategoryID = doc.CategoryID
	}
	if in.DocumentDate.IsZero() {
		in.DocumentDate = doc.DocumentDate
	}

	verr := &ValidationError{}
	cat, err := s.loadCategory(ctx, in.CategoryID, verr)
	if err != nil {
		return nil, err
	}
	s.checkDate("document_date", in.DocumentDate, archive.ErrFutureDate, verr)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	doc.CategoryID = cat.ID
	doc.Category = *cat
	doc.DocumentDate = in.DocumentDate
	target := archive.UploadPath(cat.FullPath, in.DocumentDate, archive.DocumentFilename(*cat, in.DocumentDate))
	previous, moved := s.relocate(ctx, doc, target)

	doc.Version++
	doc.UpdatedAt = s.Now()
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Documents.Update(ctx, doc); err != nil {
			return err
		}
		return s.activity.Record(ctx, doc.ID, actor, model.ActionUpdate,
			fmt.Sprintf("Dokumen %s diperbarui", archive.DisplayName(doc)))
	})
	if err != nil {
		if moved {
			s.moveBack(ctx, doc, previous)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.invalidate(ctx)
	s.Log.Info("document_updated", zap.String("document_id", doc.ID), zap.Int("version", doc.Version), zap.Bool("relocated", moved))
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, actor *model.User, id string) error {
	if err := requireWriter(actor); err != nil {
		return err
	}
	doc, err := s.findDocument(ctx, id, false)
	if err != nil {
		return err
	}
	return s.softDelete(ctx, actor, doc)
}

// Restore clears the deleted flag. Restoring an active document is a no-op.
func (s *documentService) Restore(ctx context.Context, actor *model.User, id string) (*model.Document, error) {
	if err := requireWriter(actor); err != nil {
		return nil, err
	}
	doc, err := s.findDocument(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if !doc.IsDeleted {
		return doc, nil
	}

	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Documents.Restore(ctx, doc.ID); err != nil {
			return err
		}
		return s.activity.Record(ctx, doc.ID, actor, model.ActionUpdate,
			fmt.Sprintf("Dokumen %s dipulihkan", archive.DisplayName(doc)))
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	doc.IsDeleted = false
	doc.DeletedAt = nil
	s.invalidate(ctx)
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	return s.findDocument(ctx, id, false)
}

func (s *documentService) List(ctx context.Context, f repository.DocumentFilter, p PageParams) (*DocumentListResult, error) {
	return s.list(ctx, f, p)
}

func (s *documentService) Open(ctx context.Context, actor *model.User, id string, action model.ActionType) (*OpenedDocument, error) {
	if action != model.ActionView && action != model.ActionDownload {
		return nil, fmt.Errorf("unsupported open action %q", action)
	}
	doc, err := s.findDocument(ctx, id, false)
	if err != nil {
		return nil, err
	}

	body, info, err := s.Store.Get(ctx, doc.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			s.Log.Error("document_file_missing", zap.String("document_id", doc.ID), zap.String("file_path", doc.FilePath))
			return nil, ErrFileMissing
		}
		return nil, fmt.Errorf("open storage: %w", err)
	}

	if err := s.activity.Record(ctx, doc.ID, actor, action, ""); err != nil {
		body.Close()
		return nil, fmt.Errorf("record %s: %w", action, err)
	}

	size := info.Size
	if size <= 0 {
		size = doc.FileSize
	}
	ct := info.ContentType
	if ct == "" || ct == "application/octet-stream" {
		ct = "application/pdf"
	}
	return &OpenedDocument{Document: doc, Body: body, Size: size, ContentType: ct}, nil
}

func (s *documentService) Activities(ctx context.Context, id string, limit int) ([]model.Activity, error) {
	if _, err := s.findDocument(ctx, id, true); err != nil {
		return nil, err
	}
	return s.activity.List(ctx, id, limit)
}
