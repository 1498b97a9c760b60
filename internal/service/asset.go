package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"assetreg/internal/apperr"
	"assetreg/internal/model"
	"assetreg/internal/repository"
)

// CreateAssetInput carries the caller-supplied fields for a new asset.
type CreateAssetInput struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	AssetType          string `json:"asset_type"`
	DataClassification string `json:"data_classification"`
}

// SetValuationInput carries an assessed value. Amount is a decimal string so
// money never passes through a float.
type SetValuationInput struct {
	Amount         string `json:"amount"`
	AccountingType string `json:"accounting_type"`
}

// AssetService registers and reads data assets. Data holders only see their
// own organization's assets; reviewer roles see everything.
type AssetService interface {
	Create(ctx context.Context, in CreateAssetInput, actor model.Actor) (*model.Asset, error)
	Get(ctx context.Context, id string, actor model.Actor) (*model.Asset, error)
	List(ctx context.Context, stage string, actor model.Actor) ([]model.Asset, error)

	// SetValuation records the assessed monetary value of an asset.
	// Restricted to assessors and admins.
	SetValuation(ctx context.Context, id string, in SetValuationInput, actor model.Actor) (*model.Asset, error)
}

type assetService struct {
	tx     repository.Tx
	assets repository.AssetRepository
}

// NewAssetService constructs an AssetService.
func NewAssetService(tx repository.Tx, assets repository.AssetRepository) AssetService {
	return &assetService{tx: tx, assets: assets}
}

func (s *assetService) Create(ctx context.Context, in CreateAssetInput, actor model.Actor) (*model.Asset, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.E(apperr.KindValidation, "asset name is required")
	}
	if actor.Role != model.RoleDataHolder && actor.Role != model.RoleAdmin {
		return nil, apperr.E(apperr.KindForbidden, "only data holders or admins may register assets")
	}
	if actor.OrgID == "" {
		return nil, apperr.E(apperr.KindValidation, "actor has no organization")
	}

	var out *model.Asset
	err := s.tx.RunInTx(ctx, func(st repository.Stores) error {
		a, err := st.Assets.Create(ctx, &model.Asset{
			ID:                 uuid.NewString(),
			Name:               strings.TrimSpace(in.Name),
			Description:        in.Description,
			OrgID:              actor.OrgID,
			CurrentStage:       model.StageResourceInventory,
			AssetType:          in.AssetType,
			DataClassification: in.DataClassification,
			CreatedBy:          actor.ID,
		})
		if err != nil {
			return err
		}

		if _, err := st.Audit.Create(ctx, newAuditEvent(actor, model.ActionAssetCreate, model.ResourceAsset, a.ID,
			fmt.Sprintf("asset %q registered", a.Name))); err != nil {
			return fmt.Errorf("audit asset create: %w", err)
		}

		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *assetService) Get(ctx context.Context, id string, actor model.Actor) (*model.Asset, error) {
	if id == "" {
		return nil, apperr.E(apperr.KindValidation, "asset id is required")
	}
	a, err := s.assets.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.E(apperr.KindNotFound, "asset not found")
		}
		return nil, err
	}
	// Holders cannot see other organizations' assets; reported as absent.
	if actor.Role == model.RoleDataHolder && a.OrgID != actor.OrgID {
		return nil, apperr.E(apperr.KindNotFound, "asset not found")
	}
	return a, nil
}

func (s *assetService) SetValuation(ctx context.Context, id string, in SetValuationInput, actor model.Actor) (*model.Asset, error) {
	if id == "" {
		return nil, apperr.E(apperr.KindValidation, "asset id is required")
	}
	if actor.Role != model.RoleAssessor && actor.Role != model.RoleAdmin {
		return nil, apperr.E(apperr.KindForbidden, "only assessors or admins may set valuations")
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(in.Amount))
	if err != nil {
		return nil, apperr.E(apperr.KindValidation, "amount must be a decimal number")
	}
	if amount.IsNegative() {
		return nil, apperr.E(apperr.KindValidation, "amount must not be negative")
	}

	var out *model.Asset
	err = s.tx.RunInTx(ctx, func(st repository.Stores) error {
		a, err := st.Assets.SetValuation(ctx, id, amount, in.AccountingType)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.E(apperr.KindNotFound, "asset not found")
			}
			return err
		}

		if _, err := st.Audit.Create(ctx, newAuditEvent(actor, model.ActionAssetValuation, model.ResourceAsset, a.ID,
			fmt.Sprintf("asset valued at %s", amount.String()))); err != nil {
			return fmt.Errorf("audit valuation: %w", err)
		}

		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *assetService) List(ctx context.Context, stage string, actor model.Actor) ([]model.Asset, error) {
	var f repository.AssetFilter
	if stage != "" {
		st := model.Stage(stage)
		if !st.Valid() {
			return nil, apperr.E(apperr.KindValidation, "unknown stage %q", stage)
		}
		f.Stage = &st
	}
	if actor.Role == model.RoleDataHolder {
		if actor.OrgID == "" {
			return nil, apperr.E(apperr.KindForbidden, "actor has no organization")
		}
		org := actor.OrgID
		f.OrgID = &org
	}
	return s.assets.List(ctx, f)
}
