package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"arsip/internal/archive"
	"arsip/internal/model"
	"arsip/internal/repository"
)

// SPDInput is the travel-order metadata shared by create and update.
type SPDInput struct {
	DocumentDate     time.Time
	EmployeeID       int64
	Destination      string
	DestinationOther string
	StartDate        time.Time
	EndDate          time.Time
}

// withDefaults fills zero fields from the stored document.
func (in SPDInput) withDefaults(doc *model.Document) SPDInput {
	if in.DocumentDate.IsZero() {
		in.DocumentDate = doc.DocumentDate
	}
	if in.EmployeeID == 0 {
		in.EmployeeID = doc.SPD.EmployeeID
	}
	if in.Destination == "" {
		in.Destination = doc.SPD.Destination
		if in.DestinationOther == "" {
			in.DestinationOther = doc.SPD.DestinationOther
		}
	}
	if in.StartDate.IsZero() {
		in.StartDate = doc.SPD.StartDate
	}
	if in.EndDate.IsZero() {
		in.EndDate = doc.SPD.EndDate
	}
	return in
}

type CreateSPDInput struct {
	SPDInput
	File UploadFile
}

// SPDFilter narrows the SPD listing. Destination matches either the code or
// the free-text destination.
type SPDFilter struct {
	EmployeeID  int64
	Destination string
	DateFrom    *time.Time
	DateTo      *time.Time
	Search      string
}

// SPDService manages travel-order documents.
type SPDService interface {
	Create(ctx context.Context, actor *model.User, in CreateSPDInput) (*model.Document, error)
	// Update replaces the SPD metadata and renames the stored file to match.
	// Zero fields keep their current value.
	Update(ctx context.Context, actor *model.User, id string, in SPDInput) (*model.Document, error)
	Delete(ctx context.Context, actor *model.User, id string) error
	Get(ctx context.Context, id string) (*model.Document, error)
	List(ctx context.Context, f SPDFilter, p PageParams) (*DocumentListResult, error)
}

type spdService struct {
	*archiver
}

func NewSPDService(d Deps) SPDService {
	return &spdService{archiver: newArchiver(d)}
}

// check validates the metadata and resolves the employee. keepEmployee
// allows an already linked employee that has since been deactivated.
func (s *spdService) check(ctx context.Context, in SPDInput, keepEmployee int64, verr *ValidationError) (*model.Employee, error) {
	var emp *model.Employee
	if in.EmployeeID <= 0 {
		verr.Add("employee_id", "Pegawai wajib dipilih")
	} else {
		e, err := s.Employees.FindByID(ctx, in.EmployeeID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			verr.Add("employee_id", "Pegawai tidak ditemukan")
		case err != nil:
			return nil, err
		case !e.IsActive && e.ID != keepEmployee:
			verr.Add("employee_id", "Pegawai tidak aktif")
		default:
			emp = e
		}
	}

	switch {
	case !archive.ValidDestination(in.Destination):
		verr.Add("destination", archive.ErrBadDestination.Error())
	case in.Destination == archive.DestinationOther && strings.TrimSpace(in.DestinationOther) == "":
		verr.Add("destination_other", archive.ErrOtherRequired.Error())
	}

	s.checkDate("document_date", in.DocumentDate, archive.ErrFutureDate, verr)
	s.checkDate("start_date", in.StartDate, archive.ErrFutureStartDate, verr)
	s.checkDate("end_date", in.EndDate, archive.ErrFutureEndDate, verr)
	if !in.StartDate.IsZero() && !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate) {
		verr.Add("end_date", archive.ErrEndBeforeStart.Error())
	}
	return emp, nil
}

func (s *spdService) category(ctx context.Context) (*model.Category, error) {
	cat, err := s.Categories.FindBySlug(ctx, model.CategorySlugSPD)
	if err != nil {
		return nil, fmt.Errorf("load spd category: %w", err)
	}
	return cat, nil
}

func spdDetail(docID string, emp *model.Employee, in SPDInput) *model.SPDDocument {
	other := ""
	if in.Destination == archive.DestinationOther {
		other = strings.TrimSpace(in.DestinationOther)
	}
	return &model.SPDDocument{
		DocumentID:       docID,
		EmployeeID:       emp.ID,
		EmployeeName:     emp.Name,
		EmployeeNIP:      emp.NIP,
		Destination:      in.Destination,
		DestinationOther: other,
		DestinationLabel: archive.DestinationLabel(in.Destination, other),
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
	}
}

func (s *spdService) Create(ctx context.Context, actor *model.User, in CreateSPDInput) (*model.Document, error) {
	if err := requireWriter(actor); err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	emp, err := s.check(ctx, in.SPDInput, 0, verr)
	if err != nil {
		return nil, err
	}
	pages, err := s.inspectPDF(in.File, verr)
	if err != nil {
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	cat, err := s.category(ctx)
	if err != nil {
		return nil, err
	}

	docID := uuid.New().String()
	detail := spdDetail(docID, emp, in.SPDInput)
	filename := archive.SPDFilename(emp.Name, detail.DestinationLabel, in.DocumentDate)
	key, err := s.storeNew(ctx, cat.FullPath, in.DocumentDate, filename, in.File)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		ID:            docID,
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
		SPD:           detail,
	}
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Documents.Create(ctx, doc); err != nil {
			return err
		}
		if err := s.SPD.Create(ctx, detail); err != nil {
			return err
		}
		return s.activity.Record(ctx, doc.ID, actor, model.ActionCreate,
			fmt.Sprintf("SPD %s ke %s dibuat", emp.Name, detail.DestinationLabel))
	})
	if err != nil {
		return nil, s.discard(ctx, key, err)
	}

	s.invalidate(ctx)
	s.Log.Info("spd_created",
		zap.String("document_id", doc.ID),
		zap.Int64("employee_id", emp.ID),
		zap.String("destination", detail.Destination),
		zap.String("file_path", doc.FilePath),
	)
	return doc, nil
}

func (s *spdService) Update(ctx context.Context, actor *model.User, id string, in SPDInput) (*model.Document, error) {
	if err := requireWriter(actor); err != nil {
		return nil, err
	}
	doc, err := s.findDocument(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if doc.SPD == nil {
		return nil, ErrNotFound
	}
	in = in.withDefaults(doc)

	verr := &ValidationError{}
	emp, err := s.check(ctx, in, doc.SPD.EmployeeID, verr)
	if err != nil {
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	detail := spdDetail(doc.ID, emp, in)
	detail.CreatedAt = doc.SPD.CreatedAt
	doc.SPD = detail
	doc.DocumentDate = in.DocumentDate
	target := archive.UploadPath(doc.Category.FullPath, in.DocumentDate,
		archive.SPDFilename(emp.Name, detail.DestinationLabel, in.DocumentDate))
	previous, moved := s.relocate(ctx, doc, target)

	doc.Version++
	doc.UpdatedAt = s.Now()
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Documents.Update(ctx, doc); err != nil {
			return err
		}
		if err := s.SPD.Update(ctx, detail); err != nil {
			return err
		}
		return s.activity.Record(ctx, doc.ID, actor, model.ActionUpdate,
			fmt.Sprintf("SPD %s ke %s diperbarui", emp.Name, detail.DestinationLabel))
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
	s.Log.Info("spd_updated", zap.String("document_id", doc.ID), zap.Int("version", doc.Version), zap.Bool("relocated", moved))
	return doc, nil
}

func (s *spdService) Delete(ctx context.Context, actor *model.User, id string) error {
	if err := requireWriter(actor); err != nil {
		return err
	}
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.softDelete(ctx, actor, doc)
}

// Get only returns documents carrying SPD detail.
func (s *spdService) Get(ctx context.Context, id string) (*model.Document, error) {
	doc, err := s.findDocument(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if doc.SPD == nil {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (s *spdService) List(ctx context.Context, f SPDFilter, p PageParams) (*DocumentListResult, error) {
	return s.list(ctx, repository.DocumentFilter{
		SPDOnly:     true,
		EmployeeID:  f.EmployeeID,
		Destination: f.Destination,
		DateFrom:    f.DateFrom,
		DateTo:      f.DateTo,
		Search:      f.Search,
	}, p)
}
