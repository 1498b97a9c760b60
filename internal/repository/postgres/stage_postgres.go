package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"assetreg/internal/apperr"
	"assetreg/internal/model"
	"assetreg/internal/repository"
)

// StageRecordPostgres is a PostgreSQL implementation of the stage ledger.
type StageRecordPostgres struct {
	db DBTX
}

// NewStageRecordPostgres creates a new StageRecordPostgres repository.
func NewStageRecordPostgres(db DBTX) *StageRecordPostgres {
	return &StageRecordPostgres{db: db}
}

var _ repository.StageRecordRepository = (*StageRecordPostgres)(nil)

const stageRecordColumns = `id, asset_id, stage, status, submitted_by, approved_by, reject_reason, created_at, updated_at`

func scanStageRecord(row interface{ Scan(dest ...any) error }) (*model.StageRecord, error) {
	var (
		rec        model.StageRecord
		approvedBy sql.NullString
	)
	if err := row.Scan(
		&rec.ID,
		&rec.AssetID,
		&rec.Stage,
		&rec.Status,
		&rec.SubmittedBy,
		&approvedBy,
		&rec.RejectReason,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if approvedBy.Valid {
		rec.ApprovedBy = &approvedBy.String
	}
	return &rec, nil
}

// Create appends a submission. The partial unique index on open submissions
// turns a concurrent duplicate into a unique violation, surfaced as
// InvalidState so exactly one of two racing submits succeeds.
func (r *StageRecordPostgres) Create(ctx context.Context, rec *model.StageRecord) (*model.StageRecord, error) {
	const q = `
		INSERT INTO stage_records (id, asset_id, stage, status, submitted_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + stageRecordColumns
	row := r.db.QueryRowContext(ctx, q, rec.ID, rec.AssetID, rec.Stage, rec.Status, rec.SubmittedBy)
	out, err := scanStageRecord(row)
	if err != nil {
		if isUniqueViolation(err, "uq_stage_records_open_submission") {
			return nil, apperr.Wrap(err, apperr.KindInvalidState, "stage already has an open submission")
		}
		return nil, err
	}
	return out, nil
}

// Get fetches a single stage record by its ID.
func (r *StageRecordPostgres) Get(ctx context.Context, id string) (*model.StageRecord, error) {
	const q = `SELECT ` + stageRecordColumns + ` FROM stage_records WHERE id = $1`
	return scanStageRecord(r.db.QueryRowContext(ctx, q, id))
}

// FindOpenSubmission returns the submitted record for (asset, stage).
func (r *StageRecordPostgres) FindOpenSubmission(ctx context.Context, assetID string, stage model.Stage) (*model.StageRecord, error) {
	const q = `
		SELECT ` + stageRecordColumns + `
		FROM stage_records
		WHERE asset_id = $1 AND stage = $2 AND status = 'submitted'
	`
	return scanStageRecord(r.db.QueryRowContext(ctx, q, assetID, stage))
}

// ListByAsset returns an asset's records in insertion order.
func (r *StageRecordPostgres) ListByAsset(ctx context.Context, assetID string) ([]model.StageRecord, error) {
	const q = `
		SELECT ` + stageRecordColumns + `
		FROM stage_records
		WHERE asset_id = $1
		ORDER BY created_at ASC, id ASC
	`
	return r.queryRecords(ctx, q, assetID)
}

// ListSubmitted returns open submissions, newest first, optionally scoped to
// one organization's assets.
func (r *StageRecordPostgres) ListSubmitted(ctx context.Context, orgID *string) ([]model.StageRecord, error) {
	q := `
		SELECT r.id, r.asset_id, r.stage, r.status, r.submitted_by, r.approved_by, r.reject_reason, r.created_at, r.updated_at
		FROM stage_records r
		JOIN data_assets a ON a.id = r.asset_id
		WHERE r.status = 'submitted'`
	args := []any{}
	if orgID != nil {
		q += ` AND a.org_id = $1`
		args = append(args, *orgID)
	}
	q += ` ORDER BY r.created_at DESC, r.id DESC`
	return r.queryRecords(ctx, q, args...)
}

// UpdateStatus moves a submitted record to a terminal status. The WHERE
// clause only matches open records, so of two concurrent decisions exactly
// one updates a row; the loser gets Conflict (or NotFound when the record
// never existed).
func (r *StageRecordPostgres) UpdateStatus(ctx context.Context, id string, status model.StageStatus, approvedBy, rejectReason string) (*model.StageRecord, error) {
	const q = `
		UPDATE stage_records
		SET status = $1, approved_by = $2, reject_reason = $3, updated_at = now()
		WHERE id = $4 AND status = 'submitted'
		RETURNING ` + stageRecordColumns
	row := r.db.QueryRowContext(ctx, q, status, approvedBy, rejectReason, id)
	out, err := scanStageRecord(row)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// Distinguish a missing record from an already-decided one.
	existing, gerr := r.Get(ctx, id)
	if gerr != nil {
		if errors.Is(gerr, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, gerr
	}
	return nil, apperr.E(apperr.KindConflict, "stage record already decided as %s", existing.Status)
}

func (r *StageRecordPostgres) queryRecords(ctx context.Context, q string, args ...any) ([]model.StageRecord, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query stage records: %w", err)
	}
	defer rows.Close()

	items := make([]model.StageRecord, 0)
	for rows.Next() {
		rec, err := scanStageRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
