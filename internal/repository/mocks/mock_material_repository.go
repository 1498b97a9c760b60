package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"assetreg/internal/model"
)

type MockMaterialRepository struct {
	mock.Mock
}

func (m *MockMaterialRepository) CreateVersioned(ctx context.Context, mat *model.Material) (*model.Material, error) {
	args := m.Called(ctx, mat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Material), args.Error(1)
}

func (m *MockMaterialRepository) FindByID(ctx context.Context, id string) (*model.Material, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Material), args.Error(1)
}

func (m *MockMaterialRepository) ListByStageRecord(ctx context.Context, stageRecordID string) ([]model.Material, error) {
	args := m.Called(ctx, stageRecordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Material), args.Error(1)
}
