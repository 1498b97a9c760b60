package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"assetreg/internal/model"
)

type MockLifecycleService struct {
	mock.Mock
}

func (m *MockLifecycleService) Submit(ctx context.Context, assetID string, actor model.Actor) (*model.StageRecord, error) {
	args := m.Called(ctx, assetID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StageRecord), args.Error(1)
}

func (m *MockLifecycleService) Approve(ctx context.Context, recordID string, actor model.Actor) (*model.StageRecord, error) {
	args := m.Called(ctx, recordID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StageRecord), args.Error(1)
}

func (m *MockLifecycleService) Reject(ctx context.Context, recordID string, actor model.Actor, reason string) (*model.StageRecord, error) {
	args := m.Called(ctx, recordID, actor, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StageRecord), args.Error(1)
}

func (m *MockLifecycleService) GetRecord(ctx context.Context, recordID string) (*model.StageRecord, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StageRecord), args.Error(1)
}

func (m *MockLifecycleService) ListByAsset(ctx context.Context, assetID string) ([]model.StageRecord, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StageRecord), args.Error(1)
}

func (m *MockLifecycleService) ListOpenSubmissions(ctx context.Context, actor model.Actor) ([]model.StageRecord, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StageRecord), args.Error(1)
}
