package mocks

import (
	"context"

	"auditapi/internal/model"
	"auditapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, a *model.Audit) (*model.Audit, error) {
	args := m.Called(ctx, a)
	if f, ok := args.Get(0).(func(context.Context, *model.Audit) *model.Audit); ok {
		return f(ctx, a), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Audit), args.Error(1)
}

func (m *MockAuditRepository) FindByID(ctx context.Context, id string) (*model.Audit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Audit), args.Error(1)
}

func (m *MockAuditRepository) FindVersion(ctx context.Context, id string, version int) (*model.Audit, error) {
	args := m.Called(ctx, id, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Audit), args.Error(1)
}

func (m *MockAuditRepository) ListTemplates(ctx context.Context) ([]model.Audit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Audit), args.Error(1)
}

func (m *MockAuditRepository) ListByUser(ctx context.Context, userID string, q repository.UserFormsQuery) ([]model.Audit, error) {
	args := m.Called(ctx, userID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Audit), args.Error(1)
}

func (m *MockAuditRepository) UpdateTemplate(ctx context.Context, id, restaurantName string, sections model.Sections) (*model.Audit, error) {
	args := m.Called(ctx, id, restaurantName, sections)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Audit), args.Error(1)
}

func (m *MockAuditRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
