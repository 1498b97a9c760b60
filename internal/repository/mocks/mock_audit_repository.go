package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"assetreg/internal/model"
	"assetreg/internal/repository"
)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, e *model.AuditEvent) (*model.AuditEvent, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuditEvent), args.Error(1)
}

func (m *MockAuditRepository) List(ctx context.Context, f repository.AuditFilter) ([]model.AuditEvent, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEvent), args.Error(1)
}
