package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"assetreg/internal/model"
	"assetreg/internal/service"
)

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) List(ctx context.Context, in service.AuditListInput) ([]model.AuditEvent, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEvent), args.Error(1)
}
