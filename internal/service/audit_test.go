package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"assetreg/internal/apperr"
	"assetreg/internal/config"
	"assetreg/internal/model"
	"assetreg/internal/repository"
	repoMocks "assetreg/internal/repository/mocks"
)

func intPtr(n int) *int { return &n }

func TestAuditList(t *testing.T) {
	cfg := config.AuditConfig{DefaultListLimit: 50, MaxListLimit: 1000}

	t.Run("absent limit falls back to the default", func(t *testing.T) {
		repo := new(repoMocks.MockAuditRepository)
		repo.On("List", mock.Anything, repository.AuditFilter{Limit: 50}).
			Return([]model.AuditEvent{{ID: "ev-1"}}, nil)

		out, err := NewAuditService(repo, cfg).List(context.Background(), AuditListInput{})
		require.NoError(t, err)
		assert.Len(t, out, 1)
		repo.AssertExpectations(t)
	})

	t.Run("filters pass through", func(t *testing.T) {
		repo := new(repoMocks.MockAuditRepository)
		f := repository.AuditFilter{Action: model.ActionStageApprove, ResourceType: model.ResourceStageRecord, Limit: 10}
		repo.On("List", mock.Anything, f).Return([]model.AuditEvent{}, nil)

		in := AuditListInput{Action: model.ActionStageApprove, ResourceType: model.ResourceStageRecord, Limit: intPtr(10)}
		_, err := NewAuditService(repo, cfg).List(context.Background(), in)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("explicit zero limit is rejected", func(t *testing.T) {
		repo := new(repoMocks.MockAuditRepository)
		_, err := NewAuditService(repo, cfg).List(context.Background(), AuditListInput{Limit: intPtr(0)})
		assert.True(t, apperr.IsValidation(err))
		repo.AssertNotCalled(t, "List")
	})

	t.Run("negative limit is rejected", func(t *testing.T) {
		repo := new(repoMocks.MockAuditRepository)
		_, err := NewAuditService(repo, cfg).List(context.Background(), AuditListInput{Limit: intPtr(-1)})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("limit above the cap is rejected", func(t *testing.T) {
		repo := new(repoMocks.MockAuditRepository)
		_, err := NewAuditService(repo, cfg).List(context.Background(), AuditListInput{Limit: intPtr(1001)})
		assert.True(t, apperr.IsValidation(err))
	})
}
