package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"arsip/internal/model"
	"arsip/internal/repository"
	"arsip/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Create(ctx context.Context, actor *model.User, in service.CreateDocumentInput) (*model.Document, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Update(ctx context.Context, actor *model.User, id string, in service.UpdateDocumentInput) (*model.Document, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, actor *model.User, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockDocumentService) Restore(ctx context.Context, actor *model.User, id string) (*model.Document, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, f repository.DocumentFilter, p service.PageParams) (*service.DocumentListResult, error) {
	args := m.Called(ctx, f, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Open(ctx context.Context, actor *model.User, id string, action model.ActionType) (*service.OpenedDocument, error) {
	args := m.Called(ctx, actor, id, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OpenedDocument), args.Error(1)
}

func (m *MockDocumentService) Activities(ctx context.Context, id string, limit int) ([]model.Activity, error) {
	args := m.Called(ctx, id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Activity), args.Error(1)
}

type MockSPDService struct {
	mock.Mock
}

func (m *MockSPDService) Create(ctx context.Context, actor *model.User, in service.CreateSPDInput) (*model.Document, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockSPDService) Update(ctx context.Context, actor *model.User, id string, in service.SPDInput) (*model.Document, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockSPDService) Delete(ctx context.Context, actor *model.User, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockSPDService) Get(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockSPDService) List(ctx context.Context, f service.SPDFilter, p service.PageParams) (*service.DocumentListResult, error) {
	args := m.Called(ctx, f, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}
