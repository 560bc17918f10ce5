package mocks

import (
	"context"

	"auditapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, e *model.VersionLedgerEntry) (*model.VersionLedgerEntry, error) {
	args := m.Called(ctx, e)
	if f, ok := args.Get(0).(func(context.Context, *model.VersionLedgerEntry) *model.VersionLedgerEntry); ok {
		return f(ctx, e), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VersionLedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) LatestByFormID(ctx context.Context, formID string) (*model.VersionLedgerEntry, error) {
	args := m.Called(ctx, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VersionLedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListByFormID(ctx context.Context, formID string) ([]model.VersionLedgerEntry, error) {
	args := m.Called(ctx, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VersionLedgerEntry), args.Error(1)
}
