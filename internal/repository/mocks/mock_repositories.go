package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"arsip/internal/model"
	"arsip/internal/repository"
)

type MockSPDRepository struct {
	mock.Mock
}

func (m *MockSPDRepository) Create(ctx context.Context, spd *model.SPDDocument) error {
	return m.Called(ctx, spd).Error(0)
}

func (m *MockSPDRepository) Update(ctx context.Context, spd *model.SPDDocument) error {
	return m.Called(ctx, spd).Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) Create(ctx context.Context, e *model.Employee) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEmployeeRepository) FindByID(ctx context.Context, id int64) (*model.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) List(ctx context.Context, f repository.EmployeeFilter) ([]model.Employee, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) Update(ctx context.Context, e *model.Employee) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEmployeeRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockEmployeeRepository) Stats(ctx context.Context) (*model.EmployeeStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EmployeeStats), args.Error(1)
}

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, a *model.Activity) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockActivityRepository) ListByDocument(ctx context.Context, documentID string, limit int) ([]model.Activity, error) {
	args := m.Called(ctx, documentID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Activity), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, f repository.UserFilter) ([]model.User, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *model.User) error {
	return m.Called(ctx, u).Error(0)
}

type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) CountDocuments(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockStatsRepository) CountInCategory(ctx context.Context, slug string) (int, error) {
	args := m.Called(ctx, slug)
	return args.Int(0), args.Error(1)
}

func (m *MockStatsRepository) CountUnderParent(ctx context.Context, slug string) (int, error) {
	args := m.Called(ctx, slug)
	return args.Int(0), args.Error(1)
}

func (m *MockStatsRepository) MonthlyCounts(ctx context.Context, since time.Time) ([]model.MonthCount, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MonthCount), args.Error(1)
}

func (m *MockStatsRepository) CategoryBreakdown(ctx context.Context) ([]model.CategoryCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CategoryCount), args.Error(1)
}

func (m *MockStatsRepository) TopUploaders(ctx context.Context, limit int) ([]model.UploaderCount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UploaderCount), args.Error(1)
}

func (m *MockStatsRepository) CreatedBetween(ctx context.Context, from, to time.Time, slug string) (int, error) {
	args := m.Called(ctx, from, to, slug)
	return args.Int(0), args.Error(1)
}

func (m *MockStatsRepository) CreatedByCategory(ctx context.Context, from, to time.Time) ([]model.CategoryCount, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CategoryCount), args.Error(1)
}

// PassthroughTx runs the unit of work without a database.
type PassthroughTx struct{}

func (PassthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
