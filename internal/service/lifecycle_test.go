package service

import (
	"context"
	"database/sql"
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

type lifecycleFixture struct {
	assets  *repoMocks.MockAssetRepository
	records *repoMocks.MockStageRecordRepository
	audit   *repoMocks.MockAuditRepository
	svc     LifecycleService
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()
	f := &lifecycleFixture{
		assets:  new(repoMocks.MockAssetRepository),
		records: new(repoMocks.MockStageRecordRepository),
		audit:   new(repoMocks.MockAuditRepository),
	}
	tx := &repoMocks.StubTx{Stores: repository.Stores{
		Assets:  f.assets,
		Records: f.records,
		Audit:   f.audit,
	}}
	f.svc = NewLifecycleService(tx, f.records, defaultStageReviewersForTest())
	return f
}

func defaultStageReviewersForTest() config.StageReviewers {
	sr := make(config.StageReviewers, len(model.StageOrder))
	for _, s := range model.StageOrder {
		sr[s] = []model.Role{model.RoleRegistryCenter, model.RoleAdmin}
	}
	sr[model.StageComplianceAssessment] = append(sr[model.StageComplianceAssessment], model.RoleCompliance)
	sr[model.StageValueAssessment] = append(sr[model.StageValueAssessment], model.RoleAssessor)
	return sr
}

func holderActor() model.Actor {
	return model.Actor{ID: "user-1", Username: "alice", Role: model.RoleDataHolder, OrgID: "org-1"}
}

func reviewerActor() model.Actor {
	return model.Actor{ID: "rev-1", Username: "bob", Role: model.RoleRegistryCenter}
}

func TestLifecycleSubmit(t *testing.T) {
	asset := &model.Asset{ID: "asset-1", OrgID: "org-1", CurrentStage: model.StageResourceInventory}

	t.Run("opens a submission for the current stage", func(t *testing.T) {
		f := newLifecycleFixture(t)
		f.assets.On("FindByID", mock.Anything, "asset-1").Return(asset, nil)
		f.records.On("FindOpenSubmission", mock.Anything, "asset-1", model.StageResourceInventory).
			Return(nil, sql.ErrNoRows)
		f.records.On("Create", mock.Anything, mock.MatchedBy(func(r *model.StageRecord) bool {
			return r.AssetID == "asset-1" &&
				r.Stage == model.StageResourceInventory &&
				r.Status == model.StatusSubmitted &&
				r.SubmittedBy == "user-1"
		})).Return(&model.StageRecord{ID: "rec-1", AssetID: "asset-1", Stage: model.StageResourceInventory, Status: model.StatusSubmitted}, nil)
		f.audit.On("Create", mock.Anything, mock.MatchedBy(func(e *model.AuditEvent) bool {
			return e.Action == model.ActionStageSubmit && e.ResourceID == "rec-1"
		})).Return(&model.AuditEvent{}, nil)

		rec, err := f.svc.Submit(context.Background(), "asset-1", holderActor())
		require.NoError(t, err)
		assert.Equal(t, "rec-1", rec.ID)
		f.records.AssertExpectations(t)
		f.audit.AssertExpectations(t)
	})

	t.Run("missing asset is not found", func(t *testing.T) {
		f := newLifecycleFixture(t)
		f.assets.On("FindByID", mock.Anything, "ghost").Return(nil, sql.ErrNoRows)

		_, err := f.svc.Submit(context.Background(), "ghost", holderActor())
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("holder from another organization is forbidden", func(t *testing.T) {
		f := newLifecycleFixture(t)
		f.assets.On("FindByID", mock.Anything, "asset-1").Return(asset, nil)

		other := holderActor()
		other.OrgID = "org-2"
		_, err := f.svc.Submit(context.Background(), "asset-1", other)
		assert.True(t, apperr.IsForbidden(err))
		f.records.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("admin may submit for any organization", func(t *testing.T) {
		f := newLifecycleFixture(t)
		f.assets.On("FindByID", mock.Anything, "asset-1").Return(asset, nil)
		f.records.On("FindOpenSubmission", mock.Anything, "asset-1", model.StageResourceInventory).
			Return(nil, sql.ErrNoRows)
		f.records.On("Create", mock.Anything, mock.Anything).
			Return(&model.StageRecord{ID: "rec-2"}, nil)
		f.audit.On("Create", mock.Anything, mock.Anything).Return(&model.AuditEvent{}, nil)

		admin := model.Actor{ID: "admin-1", Role: model.RoleAdmin, OrgID: "org-9"}
		_, err := f.svc.Submit(context.Background(), "asset-1", admin)
		assert.NoError(t, err)
	})

	t.Run("open submission blocks a second one", func(t *testing.T) {
		f := newLifecycleFixture(t)
		f.assets.On("FindByID", mock.Anything, "asset-1").Return(asset, nil)
		f.records.On("FindOpenSubmission", mock.Anything, "asset-1", model.StageResourceInventory).
			Return(&model.StageRecord{ID: "rec-open", Status: model.StatusSubmitted}, nil)

		_, err := f.svc.Submit(context.Background(), "asset-1", holderActor())
		assert.True(t, apperr.IsInvalidState(err))
		f.records.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejected stage can be resubmitted", func(t *testing.T) {
		f := newLifecycleFixture(t)
		// A rejected record is terminal, so no open submission exists.
		f.assets.On("FindByID", mock.Anything, "asset-1").Return(asset, nil)
		f.records.On("FindOpenSubmission", mock.Anything, "asset-1", model.StageResourceInventory).
			Return(nil, sql.ErrNoRows)
		f.records.On("Create", mock.Anything, mock.Anything).
			Return(&model.StageRecord{ID: "rec-3", Status: model.StatusSubmitted}, nil)
		f.audit.On("Create", mock.Anything, mock.Anything).Return(&model.AuditEvent{}, nil)

		rec, err := f.svc.Submit(context.Background(), "asset-1", holderActor())
		require.NoError(t, err)
		assert.Equal(t, model.StatusSubmitted, rec.Status)
	})
}

func TestLifecycleApprove(t *testing.T) {
	submitted := func() *model.StageRecord {
		return &model.StageRecord{
			ID:      "rec-1",
			AssetID: "asset-1",
			Stage:   model.StageResourceInventory,
			Status:  model.StatusSubmitted,
		}
	}

	t.Run("approval advances the asset to the next stage", func(t *testing.T) {
		f := newLifecycleFixture(t)
		f.records.On("Get", mock.Anything, "rec-1").Return(submitted(), nil)
		f.records.On("UpdateStatus", mock.Anything, "rec-1", model.StatusApproved, "rev-1", "").
			Return(&model.StageRecord{ID: "rec-1", Status: model.StatusApproved}, nil)
		f.assets.On("AdvanceStage", mock.Anything, "asset-1", model.StageResourceInventory, model.StageAssetInventory).
			Return(int64(1), nil)
		f.audit.On("Create", mock.Anything, mock.MatchedBy(func(e *model.AuditEvent) bool {
			return e.Action == model.ActionStageApprove
		})).Return(&model.AuditEvent{}, nil)

		rec, err := f.svc.Approve(context.Background(), "rec-1", reviewerActor())
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, rec.Status)
		f.assets.AssertExpectations(t)
	})

	t.Run("final stage approval does not advance", func(t *testing.T) {
		f := newLifecycleFixture(t)
		last := submitted()
		last.Stage = model.StageOperation
		f.records.On("Get", mock.Anything, "rec-1").Return(last, nil)
		f.records.On("UpdateStatus", mock.Anything, "rec-1", model.StatusApproved, "rev-1", "").
			Return(&model.StageRecord{ID: "rec-1", Status: model.StatusApproved}, nil)
		f.audit.On("Create", mock.Anything, mock.Anything).Return(&model.AuditEvent{}, nil)

		_, err := f.svc.Approve(context.Background(), "rec-1", reviewerActor())
		require.NoError(t, err)
		f.assets.AssertNotCalled(t, "AdvanceStage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unauthorized role is forbidden", func(t *testing.T) {
		f := newLifecycleFixture(t)
		f.records.On("Get", mock.Anything, "rec-1").Return(submitted(), nil)

		_, err := f.svc.Approve(context.Background(), "rec-1", holderActor())
		assert.True(t, apperr.IsForbidden(err))
		f.records.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("assessor may decide the value assessment stage only", func(t *testing.T) {
		f := newLifecycleFixture(t)
		rec := submitted()
		rec.Stage = model.StageValueAssessment
		f.records.On("Get", mock.Anything, "rec-1").Return(rec, nil)
		f.records.On("UpdateStatus", mock.Anything, "rec-1", model.StatusApproved, "asr-1", "").
			Return(&model.StageRecord{ID: "rec-1", Status: model.StatusApproved}, nil)
		f.assets.On("AdvanceStage", mock.Anything, "asset-1", model.StageValueAssessment, model.StageOperation).
			Return(int64(1), nil)
		f.audit.On("Create", mock.Anything, mock.Anything).Return(&model.AuditEvent{}, nil)

		assessor := model.Actor{ID: "asr-1", Role: model.RoleAssessor}
		_, err := f.svc.Approve(context.Background(), "rec-1", assessor)
		assert.NoError(t, err)
	})

	t.Run("decided record cannot be decided again", func(t *testing.T) {
		f := newLifecycleFixture(t)
		done := submitted()
		done.Status = model.StatusApproved
		f.records.On("Get", mock.Anything, "rec-1").Return(done, nil)

		_, err := f.svc.Approve(context.Background(), "rec-1", reviewerActor())
		assert.True(t, apperr.IsInvalidState(err))
	})

	t.Run("lost advance race surfaces as conflict", func(t *testing.T) {
		f := newLifecycleFixture(t)
		f.records.On("Get", mock.Anything, "rec-1").Return(submitted(), nil)
		f.records.On("UpdateStatus", mock.Anything, "rec-1", model.StatusApproved, "rev-1", "").
			Return(&model.StageRecord{ID: "rec-1", Status: model.StatusApproved}, nil)
		f.assets.On("AdvanceStage", mock.Anything, "asset-1", model.StageResourceInventory, model.StageAssetInventory).
			Return(int64(0), nil)

		_, err := f.svc.Approve(context.Background(), "rec-1", reviewerActor())
		assert.True(t, apperr.IsConflict(err))
		f.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestLifecycleReject(t *testing.T) {
	t.Run("requires a reason", func(t *testing.T) {
		f := newLifecycleFixture(t)
		_, err := f.svc.Reject(context.Background(), "rec-1", reviewerActor(), "   ")
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("rejection keeps the asset at its stage", func(t *testing.T) {
		f := newLifecycleFixture(t)
		f.records.On("Get", mock.Anything, "rec-1").Return(&model.StageRecord{
			ID: "rec-1", AssetID: "asset-1", Stage: model.StageAssetInventory, Status: model.StatusSubmitted,
		}, nil)
		f.records.On("UpdateStatus", mock.Anything, "rec-1", model.StatusRejected, "rev-1", "missing schema").
			Return(&model.StageRecord{ID: "rec-1", Status: model.StatusRejected, RejectReason: "missing schema"}, nil)
		f.audit.On("Create", mock.Anything, mock.MatchedBy(func(e *model.AuditEvent) bool {
			return e.Action == model.ActionStageReject
		})).Return(&model.AuditEvent{}, nil)

		rec, err := f.svc.Reject(context.Background(), "rec-1", reviewerActor(), "missing schema")
		require.NoError(t, err)
		assert.Equal(t, model.StatusRejected, rec.Status)
		f.assets.AssertNotCalled(t, "AdvanceStage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLifecycleListOpenSubmissions(t *testing.T) {
	t.Run("reviewer sees the global feed", func(t *testing.T) {
		f := newLifecycleFixture(t)
		f.records.On("ListSubmitted", mock.Anything, (*string)(nil)).
			Return([]model.StageRecord{{ID: "rec-1"}}, nil)

		out, err := f.svc.ListOpenSubmissions(context.Background(), reviewerActor())
		require.NoError(t, err)
		assert.Len(t, out, 1)
	})

	t.Run("holder feed is scoped to their organization", func(t *testing.T) {
		f := newLifecycleFixture(t)
		org := "org-1"
		f.records.On("ListSubmitted", mock.Anything, &org).
			Return([]model.StageRecord{}, nil)

		_, err := f.svc.ListOpenSubmissions(context.Background(), holderActor())
		require.NoError(t, err)
		f.records.AssertExpectations(t)
	})

	t.Run("holder without organization is forbidden", func(t *testing.T) {
		f := newLifecycleFixture(t)
		orphan := model.Actor{ID: "user-2", Role: model.RoleDataHolder}
		_, err := f.svc.ListOpenSubmissions(context.Background(), orphan)
		assert.True(t, apperr.IsForbidden(err))
	})
}
