package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"arsip/internal/model"
	"arsip/internal/repository"
	"arsip/internal/service"
)

type MockEmployeeService struct {
	mock.Mock
}

func (m *MockEmployeeService) Create(ctx context.Context, actor *model.User, in service.EmployeeInput) (*model.Employee, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Employee), args.Error(1)
}

func (m *MockEmployeeService) Update(ctx context.Context, actor *model.User, id int64, in service.EmployeeInput) (*model.Employee, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Employee), args.Error(1)
}

func (m *MockEmployeeService) Deactivate(ctx context.Context, actor *model.User, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockEmployeeService) Get(ctx context.Context, id int64) (*model.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Employee), args.Error(1)
}

func (m *MockEmployeeService) List(ctx context.Context, f repository.EmployeeFilter) ([]model.Employee, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Employee), args.Error(1)
}

func (m *MockEmployeeService) Stats(ctx context.Context) (*model.EmployeeStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EmployeeStats), args.Error(1)
}

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryService) Get(ctx context.Context, id int64) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryService) Documents(ctx context.Context, id int64, p service.PageParams) (*service.DocumentListResult, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardStats), args.Error(1)
}

func (m *MockDashboardService) MonthlyReport(ctx context.Context, year int, month time.Month) (*service.MonthlyReport, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MonthlyReport), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*service.Session, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	return m.Called(ctx, username, password).Error(0)
}

func (m *MockAuthService) CreateUser(ctx context.Context, actor *model.User, in service.CreateUserInput) (*model.User, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) ListUsers(ctx context.Context, actor *model.User, f repository.UserFilter) ([]model.User, error) {
	args := m.Called(ctx, actor, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockAuthService) GetUser(ctx context.Context, actor *model.User, id string) (*model.User, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) UpdateUser(ctx context.Context, actor *model.User, id string, in service.UpdateUserInput) (*model.User, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) SetUserActive(ctx context.Context, actor *model.User, id string, active bool) (*model.User, error) {
	args := m.Called(ctx, actor, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, actor *model.User, id, password string) error {
	return m.Called(ctx, actor, id, password).Error(0)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, actor *model.User, oldPassword, newPassword string) error {
	return m.Called(ctx, actor, oldPassword, newPassword).Error(0)
}

type MockMaintenanceService struct {
	mock.Mock
}

func (m *MockMaintenanceService) PurgeDeleted(ctx context.Context, actor *model.User, olderThanDays int, dryRun bool) (*service.PurgeResult, error) {
	args := m.Called(ctx, actor, olderThanDays, dryRun)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PurgeResult), args.Error(1)
}
