package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"assetreg/internal/apperr"
	"assetreg/internal/config"
	"assetreg/internal/model"
	"assetreg/internal/repository"
)

// LifecycleService governs an asset's progression through the eight-stage
// lifecycle: who may submit, who may decide, and when the current stage
// advances. Record mutation, stage advancement and the audit event commit as
// one transaction; none of them becomes visible without the others.
type LifecycleService interface {
	// Submit opens a review for the asset's current stage.
	Submit(ctx context.Context, assetID string, actor model.Actor) (*model.StageRecord, error)

	// Approve decides a submitted record and advances the asset to the next
	// stage (no-op on the terminal operation stage).
	Approve(ctx context.Context, recordID string, actor model.Actor) (*model.StageRecord, error)

	// Reject decides a submitted record with a mandatory reason; the asset
	// stays at its stage so the holder can resubmit.
	Reject(ctx context.Context, recordID string, actor model.Actor, reason string) (*model.StageRecord, error)

	// GetRecord returns a single stage record.
	GetRecord(ctx context.Context, recordID string) (*model.StageRecord, error)

	// ListByAsset returns an asset's full stage history in insertion order.
	ListByAsset(ctx context.Context, assetID string) ([]model.StageRecord, error)

	// ListOpenSubmissions is the pending-approval feed: reviewer roles see
	// every open submission, data holders only their own organization's.
	ListOpenSubmissions(ctx context.Context, actor model.Actor) ([]model.StageRecord, error)
}

type lifecycleService struct {
	tx        repository.Tx
	records   repository.StageRecordRepository
	reviewers config.StageReviewers
}

// NewLifecycleService constructs a LifecycleService. Mutations run through
// tx; reads go straight to the records repository.
func NewLifecycleService(tx repository.Tx, records repository.StageRecordRepository, reviewers config.StageReviewers) LifecycleService {
	return &lifecycleService{tx: tx, records: records, reviewers: reviewers}
}

func (s *lifecycleService) Submit(ctx context.Context, assetID string, actor model.Actor) (*model.StageRecord, error) {
	if assetID == "" {
		return nil, apperr.E(apperr.KindValidation, "asset id is required")
	}

	var out *model.StageRecord
	err := s.tx.RunInTx(ctx, func(st repository.Stores) error {
		asset, err := st.Assets.FindByID(ctx, assetID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.E(apperr.KindNotFound, "asset not found")
			}
			return err
		}

		if actor.Role != model.RoleAdmin && actor.OrgID != asset.OrgID {
			return apperr.E(apperr.KindForbidden, "actor may not submit for this organization")
		}

		if _, err := st.Records.FindOpenSubmission(ctx, asset.ID, asset.CurrentStage); err == nil {
			return apperr.E(apperr.KindInvalidState, "stage %s already submitted, awaiting review", asset.CurrentStage)
		} else if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		rec, err := st.Records.Create(ctx, &model.StageRecord{
			ID:          uuid.NewString(),
			AssetID:     asset.ID,
			Stage:       asset.CurrentStage,
			Status:      model.StatusSubmitted,
			SubmittedBy: actor.ID,
		})
		if err != nil {
			return err
		}

		if _, err := st.Audit.Create(ctx, newAuditEvent(actor, model.ActionStageSubmit, model.ResourceStageRecord, rec.ID,
			fmt.Sprintf("asset %s stage %s submitted", asset.ID, rec.Stage))); err != nil {
			return fmt.Errorf("audit submit: %w", err)
		}

		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *lifecycleService) Approve(ctx context.Context, recordID string, actor model.Actor) (*model.StageRecord, error) {
	return s.decide(ctx, recordID, actor, model.StatusApproved, "")
}

func (s *lifecycleService) Reject(ctx context.Context, recordID string, actor model.Actor, reason string) (*model.StageRecord, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperr.E(apperr.KindValidation, "rejection reason is required")
	}
	return s.decide(ctx, recordID, actor, model.StatusRejected, reason)
}

// decide is the shared approve/reject path. Both decisions update the
// record exactly once; only approval advances the asset's current stage.
func (s *lifecycleService) decide(ctx context.Context, recordID string, actor model.Actor, status model.StageStatus, reason string) (*model.StageRecord, error) {
	if recordID == "" {
		return nil, apperr.E(apperr.KindValidation, "record id is required")
	}

	var out *model.StageRecord
	err := s.tx.RunInTx(ctx, func(st repository.Stores) error {
		rec, err := st.Records.Get(ctx, recordID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.E(apperr.KindNotFound, "stage record not found")
			}
			return err
		}
		if rec.Status != model.StatusSubmitted {
			return apperr.E(apperr.KindInvalidState, "stage record already decided as %s", rec.Status)
		}
		if !s.reviewers.Allowed(rec.Stage, actor.Role) {
			return apperr.E(apperr.KindForbidden, "role %s may not review stage %s", actor.Role, rec.Stage)
		}

		updated, err := st.Records.UpdateStatus(ctx, rec.ID, status, actor.ID, reason)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.E(apperr.KindNotFound, "stage record not found")
			}
			return err
		}

		action := model.ActionStageReject
		detail := fmt.Sprintf("asset %s stage %s rejected: %s", rec.AssetID, rec.Stage, reason)
		if status == model.StatusApproved {
			action = model.ActionStageApprove
			detail = fmt.Sprintf("asset %s stage %s approved", rec.AssetID, rec.Stage)

			if next, ok := rec.Stage.Next(); ok {
				n, err := st.Assets.AdvanceStage(ctx, rec.AssetID, rec.Stage, next)
				if err != nil {
					return err
				}
				if n == 0 {
					return apperr.E(apperr.KindConflict, "asset stage moved concurrently")
				}
			}
		}

		if _, err := st.Audit.Create(ctx, newAuditEvent(actor, action, model.ResourceStageRecord, rec.ID, detail)); err != nil {
			return fmt.Errorf("audit decision: %w", err)
		}

		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *lifecycleService) GetRecord(ctx context.Context, recordID string) (*model.StageRecord, error) {
	if recordID == "" {
		return nil, apperr.E(apperr.KindValidation, "record id is required")
	}
	rec, err := s.records.Get(ctx, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.E(apperr.KindNotFound, "stage record not found")
		}
		return nil, err
	}
	return rec, nil
}

func (s *lifecycleService) ListByAsset(ctx context.Context, assetID string) ([]model.StageRecord, error) {
	if assetID == "" {
		return nil, apperr.E(apperr.KindValidation, "asset id is required")
	}
	return s.records.ListByAsset(ctx, assetID)
}

func (s *lifecycleService) ListOpenSubmissions(ctx context.Context, actor model.Actor) ([]model.StageRecord, error) {
	if actor.Role.Reviewer() {
		return s.records.ListSubmitted(ctx, nil)
	}
	if actor.OrgID == "" {
		return nil, apperr.E(apperr.KindForbidden, "actor has no organization")
	}
	org := actor.OrgID
	return s.records.ListSubmitted(ctx, &org)
}

// newAuditEvent builds the audit row emitted alongside every mutation.
func newAuditEvent(actor model.Actor, action, resourceType, resourceID, detail string) *model.AuditEvent {
	return &model.AuditEvent{
		ID:           uuid.NewString(),
		UserID:       actor.ID,
		Username:     actor.Username,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Detail:       detail,
		IPAddress:    actor.IP,
	}
}
