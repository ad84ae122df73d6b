package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"arsip/internal/archive"
	"arsip/internal/model"
	"arsip/internal/repository"
)

type EmployeeInput struct {
	NIP        string
	Name       string
	Position   string
	Department string
	// IsActive is only applied on update when set.
	IsActive *bool
}

// EmployeeService manages the traveller register used by SPD documents.
type EmployeeService interface {
	Create(ctx context.Context, actor *model.User, in EmployeeInput) (*model.Employee, error)
	Update(ctx context.Context, actor *model.User, id int64, in EmployeeInput) (*model.Employee, error)
	// Deactivate hides the employee from new SPDs; existing ones keep the link.
	Deactivate(ctx context.Context, actor *model.User, id int64) error
	Get(ctx context.Context, id int64) (*model.Employee, error)
	List(ctx context.Context, f repository.EmployeeFilter) ([]model.Employee, error)
	Stats(ctx context.Context) (*model.EmployeeStats, error)
}

type employeeService struct {
	repo repository.EmployeeRepository
	log  *zap.Logger
}

func NewEmployeeService(repo repository.EmployeeRepository, log *zap.Logger) EmployeeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &employeeService{repo: repo, log: log}
}

func (in EmployeeInput) validate() (EmployeeInput, error) {
	verr := &ValidationError{}
	nip, err := archive.NormalizeNIP(in.NIP)
	if err != nil {
		verr.Add("nip", err.Error())
	}
	in.NIP = nip
	in.Name = strings.TrimSpace(in.Name)
	in.Position = strings.TrimSpace(in.Position)
	in.Department = strings.TrimSpace(in.Department)
	if in.Name == "" {
		verr.Add("name", "Nama wajib diisi")
	}
	if in.Position == "" {
		verr.Add("position", "Jabatan wajib diisi")
	}
	return in, verr.OrNil()
}

// withDefaults fills omitted fields from the stored employee.
func (in EmployeeInput) withDefaults(e *model.Employee) EmployeeInput {
	if strings.TrimSpace(in.NIP) == "" {
		in.NIP = e.NIP
	}
	if strings.TrimSpace(in.Name) == "" {
		in.Name = e.Name
	}
	if strings.TrimSpace(in.Position) == "" {
		in.Position = e.Position
	}
	if strings.TrimSpace(in.Department) == "" {
		in.Department = e.Department
	}
	return in
}

func (s *employeeService) Create(ctx context.Context, actor *model.User, in EmployeeInput) (*model.Employee, error) {
	if err := requireWriter(actor); err != nil {
		return nil, err
	}
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	e := &model.Employee{
		NIP:        in.NIP,
		Name:       in.Name,
		Position:   in.Position,
		Department: in.Department,
		IsActive:   true,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, FieldError("nip", "NIP sudah terdaftar")
		}
		return nil, err
	}
	s.log.Info("employee_created", zap.Int64("employee_id", e.ID), zap.String("user_id", actor.ID))
	return e, nil
}

func (s *employeeService) Update(ctx context.Context, actor *model.User, id int64, in EmployeeInput) (*model.Employee, error) {
	if err := requireWriter(actor); err != nil {
		return nil, err
	}
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err = in.withDefaults(e).validate()
	if err != nil {
		return nil, err
	}
	e.NIP = in.NIP
	e.Name = in.Name
	e.Position = in.Position
	e.Department = in.Department
	if in.IsActive != nil {
		e.IsActive = *in.IsActive
	}
	if err := s.repo.Update(ctx, e); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, FieldError("nip", "NIP sudah terdaftar")
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *employeeService) Deactivate(ctx context.Context, actor *model.User, id int64) error {
	if err := requireWriter(actor); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.log.Info("employee_deactivated", zap.Int64("employee_id", id), zap.String("user_id", actor.ID))
	return nil
}

func (s *employeeService) Get(ctx context.Context, id int64) (*model.Employee, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *employeeService) List(ctx context.Context, f repository.EmployeeFilter) ([]model.Employee, error) {
	f.Search = strings.TrimSpace(f.Search)
	return s.repo.List(ctx, f)
}

func (s *employeeService) Stats(ctx context.Context) (*model.EmployeeStats, error) {
	return s.repo.Stats(ctx)
}
