package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"assetreg/internal/service"
)

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) CityRollup(ctx context.Context) (*service.CityRollup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CityRollup), args.Error(1)
}

func (m *MockStatsService) HolderRollup(ctx context.Context, orgID string) (*service.HolderRollup, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.HolderRollup), args.Error(1)
}
