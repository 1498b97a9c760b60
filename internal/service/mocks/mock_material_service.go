package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"assetreg/internal/model"
)

type MockMaterialService struct {
	mock.Mock
}

func (m *MockMaterialService) Upload(ctx context.Context, stageRecordID, fileName string, r io.Reader, declaredType string, actor model.Actor) (*model.Material, error) {
	args := m.Called(ctx, stageRecordID, fileName, r, declaredType, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Material), args.Error(1)
}

func (m *MockMaterialService) List(ctx context.Context, stageRecordID string) ([]model.Material, error) {
	args := m.Called(ctx, stageRecordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Material), args.Error(1)
}

func (m *MockMaterialService) DownloadURL(ctx context.Context, stageRecordID, materialID string) (string, error) {
	args := m.Called(ctx, stageRecordID, materialID)
	return args.String(0), args.Error(1)
}
