package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"assetreg/internal/model"
	"assetreg/internal/service"
)

type MockAssetService struct {
	mock.Mock
}

func (m *MockAssetService) Create(ctx context.Context, in service.CreateAssetInput, actor model.Actor) (*model.Asset, error) {
	args := m.Called(ctx, in, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetService) Get(ctx context.Context, id string, actor model.Actor) (*model.Asset, error) {
	args := m.Called(ctx, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetService) SetValuation(ctx context.Context, id string, in service.SetValuationInput, actor model.Actor) (*model.Asset, error) {
	args := m.Called(ctx, id, in, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetService) List(ctx context.Context, stage string, actor model.Actor) ([]model.Asset, error) {
	args := m.Called(ctx, stage, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Asset), args.Error(1)
}
