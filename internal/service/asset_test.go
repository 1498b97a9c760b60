package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"assetreg/internal/apperr"
	"assetreg/internal/model"
	"assetreg/internal/repository"
	repoMocks "assetreg/internal/repository/mocks"
)

type assetFixture struct {
	assets *repoMocks.MockAssetRepository
	audit  *repoMocks.MockAuditRepository
	svc    AssetService
}

func newAssetFixture(t *testing.T) *assetFixture {
	t.Helper()
	f := &assetFixture{
		assets: new(repoMocks.MockAssetRepository),
		audit:  new(repoMocks.MockAuditRepository),
	}
	tx := &repoMocks.StubTx{Stores: repository.Stores{
		Assets: f.assets,
		Audit:  f.audit,
	}}
	f.svc = NewAssetService(tx, f.assets)
	return f
}

func TestAssetCreate(t *testing.T) {
	t.Run("registers at the first stage with an audit event", func(t *testing.T) {
		f := newAssetFixture(t)
		f.assets.On("Create", mock.Anything, mock.MatchedBy(func(a *model.Asset) bool {
			return a.Name == "citizen registry extract" &&
				a.OrgID == "org-1" &&
				a.CurrentStage == model.StageResourceInventory &&
				a.CreatedBy == "user-1"
		})).Return(&model.Asset{ID: "asset-1", Name: "citizen registry extract"}, nil)
		f.audit.On("Create", mock.Anything, mock.MatchedBy(func(e *model.AuditEvent) bool {
			return e.Action == model.ActionAssetCreate && e.ResourceID == "asset-1"
		})).Return(&model.AuditEvent{}, nil)

		a, err := f.svc.Create(context.Background(), CreateAssetInput{Name: " citizen registry extract "}, holderActor())
		require.NoError(t, err)
		assert.Equal(t, "asset-1", a.ID)
		f.audit.AssertExpectations(t)
	})

	t.Run("name is required", func(t *testing.T) {
		f := newAssetFixture(t)
		_, err := f.svc.Create(context.Background(), CreateAssetInput{Name: "  "}, holderActor())
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("reviewer roles may not register assets", func(t *testing.T) {
		f := newAssetFixture(t)
		_, err := f.svc.Create(context.Background(), CreateAssetInput{Name: "x"}, reviewerActor())
		assert.True(t, apperr.IsForbidden(err))
	})

	t.Run("holder without organization is rejected", func(t *testing.T) {
		f := newAssetFixture(t)
		orphan := model.Actor{ID: "user-2", Role: model.RoleDataHolder}
		_, err := f.svc.Create(context.Background(), CreateAssetInput{Name: "x"}, orphan)
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestAssetGet(t *testing.T) {
	stored := &model.Asset{ID: "asset-1", OrgID: "org-1"}

	t.Run("holder reads own organization's asset", func(t *testing.T) {
		f := newAssetFixture(t)
		f.assets.On("FindByID", mock.Anything, "asset-1").Return(stored, nil)

		a, err := f.svc.Get(context.Background(), "asset-1", holderActor())
		require.NoError(t, err)
		assert.Equal(t, "asset-1", a.ID)
	})

	t.Run("other organization's asset reads as absent for holders", func(t *testing.T) {
		f := newAssetFixture(t)
		f.assets.On("FindByID", mock.Anything, "asset-1").Return(stored, nil)

		other := holderActor()
		other.OrgID = "org-2"
		_, err := f.svc.Get(context.Background(), "asset-1", other)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("reviewer reads any asset", func(t *testing.T) {
		f := newAssetFixture(t)
		f.assets.On("FindByID", mock.Anything, "asset-1").Return(stored, nil)

		_, err := f.svc.Get(context.Background(), "asset-1", reviewerActor())
		assert.NoError(t, err)
	})

	t.Run("missing asset is not found", func(t *testing.T) {
		f := newAssetFixture(t)
		f.assets.On("FindByID", mock.Anything, "ghost").Return(nil, sql.ErrNoRows)

		_, err := f.svc.Get(context.Background(), "ghost", reviewerActor())
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestAssetSetValuation(t *testing.T) {
	t.Run("assessor records the assessed value", func(t *testing.T) {
		f := newAssetFixture(t)
		amount := decimal.RequireFromString("1250000.55")
		f.assets.On("SetValuation", mock.Anything, "asset-1", amount, "intangible").
			Return(&model.Asset{ID: "asset-1", ValuationAmount: &amount}, nil)
		f.audit.On("Create", mock.Anything, mock.MatchedBy(func(e *model.AuditEvent) bool {
			return e.Action == model.ActionAssetValuation && e.ResourceID == "asset-1"
		})).Return(&model.AuditEvent{}, nil)

		assessor := model.Actor{ID: "asr-1", Role: model.RoleAssessor}
		a, err := f.svc.SetValuation(context.Background(), "asset-1",
			SetValuationInput{Amount: "1250000.55", AccountingType: "intangible"}, assessor)
		require.NoError(t, err)
		assert.True(t, a.ValuationAmount.Equal(amount))
		f.audit.AssertExpectations(t)
	})

	t.Run("holders may not set valuations", func(t *testing.T) {
		f := newAssetFixture(t)
		_, err := f.svc.SetValuation(context.Background(), "asset-1",
			SetValuationInput{Amount: "100"}, holderActor())
		assert.True(t, apperr.IsForbidden(err))
	})

	t.Run("non-decimal amount is rejected", func(t *testing.T) {
		f := newAssetFixture(t)
		assessor := model.Actor{ID: "asr-1", Role: model.RoleAssessor}
		_, err := f.svc.SetValuation(context.Background(), "asset-1",
			SetValuationInput{Amount: "a lot"}, assessor)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("negative amount is rejected", func(t *testing.T) {
		f := newAssetFixture(t)
		assessor := model.Actor{ID: "asr-1", Role: model.RoleAssessor}
		_, err := f.svc.SetValuation(context.Background(), "asset-1",
			SetValuationInput{Amount: "-1"}, assessor)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("missing asset is not found", func(t *testing.T) {
		f := newAssetFixture(t)
		f.assets.On("SetValuation", mock.Anything, "ghost", mock.Anything, mock.Anything).
			Return(nil, sql.ErrNoRows)

		assessor := model.Actor{ID: "asr-1", Role: model.RoleAssessor}
		_, err := f.svc.SetValuation(context.Background(), "ghost",
			SetValuationInput{Amount: "100"}, assessor)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestAssetList(t *testing.T) {
	t.Run("unknown stage filter is rejected", func(t *testing.T) {
		f := newAssetFixture(t)
		_, err := f.svc.List(context.Background(), "no_such_stage", reviewerActor())
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("holder listing is org scoped", func(t *testing.T) {
		f := newAssetFixture(t)
		f.assets.On("List", mock.Anything, mock.MatchedBy(func(fl repository.AssetFilter) bool {
			return fl.OrgID != nil && *fl.OrgID == "org-1" && fl.Stage == nil
		})).Return([]model.Asset{}, nil)

		_, err := f.svc.List(context.Background(), "", holderActor())
		require.NoError(t, err)
		f.assets.AssertExpectations(t)
	})

	t.Run("reviewer listing with stage filter is global", func(t *testing.T) {
		f := newAssetFixture(t)
		f.assets.On("List", mock.Anything, mock.MatchedBy(func(fl repository.AssetFilter) bool {
			return fl.OrgID == nil && fl.Stage != nil && *fl.Stage == model.StageOperation
		})).Return([]model.Asset{{ID: "asset-1"}}, nil)

		out, err := f.svc.List(context.Background(), "operation", reviewerActor())
		require.NoError(t, err)
		assert.Len(t, out, 1)
	})
}
