package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"assetreg/internal/model"
)

type MockStageRecordRepository struct {
	mock.Mock
}

func (m *MockStageRecordRepository) Create(ctx context.Context, r *model.StageRecord) (*model.StageRecord, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StageRecord), args.Error(1)
}

func (m *MockStageRecordRepository) Get(ctx context.Context, id string) (*model.StageRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StageRecord), args.Error(1)
}

func (m *MockStageRecordRepository) FindOpenSubmission(ctx context.Context, assetID string, stage model.Stage) (*model.StageRecord, error) {
	args := m.Called(ctx, assetID, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StageRecord), args.Error(1)
}

func (m *MockStageRecordRepository) ListByAsset(ctx context.Context, assetID string) ([]model.StageRecord, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StageRecord), args.Error(1)
}

func (m *MockStageRecordRepository) ListSubmitted(ctx context.Context, orgID *string) ([]model.StageRecord, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StageRecord), args.Error(1)
}

func (m *MockStageRecordRepository) UpdateStatus(ctx context.Context, id string, status model.StageStatus, approvedBy, rejectReason string) (*model.StageRecord, error) {
	args := m.Called(ctx, id, status, approvedBy, rejectReason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StageRecord), args.Error(1)
}
