package mocks

import (
	"context"

	"auditapi/internal/model"
	"auditapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Fill(ctx context.Context, templateID string, in service.FormInput) (*service.FillResult, error) {
	args := m.Called(ctx, templateID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FillResult), args.Error(1)
}

func (m *MockAuditService) Update(ctx context.Context, formID string, in service.FormInput) (*service.FillResult, error) {
	args := m.Called(ctx, formID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FillResult), args.Error(1)
}

func (m *MockAuditService) GetVersion(ctx context.Context, id string, version int) (*model.Audit, error) {
	args := m.Called(ctx, id, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Audit), args.Error(1)
}

func (m *MockAuditService) ListUserForms(ctx context.Context, userID string, filledOnly, sortVersionDesc bool) ([]model.Audit, error) {
	args := m.Called(ctx, userID, filledOnly, sortVersionDesc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Audit), args.Error(1)
}

func (m *MockAuditService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAuditService) LatestArtifact(ctx context.Context, formID string) (*model.VersionLedgerEntry, error) {
	args := m.Called(ctx, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VersionLedgerEntry), args.Error(1)
}
