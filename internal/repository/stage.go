package repository

import (
	"context"

	"assetreg/internal/model"
)

// StageRecordRepository is the stage ledger: append on submission, update a
// record exactly once to a terminal status, never delete.
type StageRecordRepository interface {
	// Create appends a new submission. The open-submission uniqueness guard
	// lives in the database (partial unique index); a duplicate open
	// submission surfaces as an InvalidState error.
	Create(ctx context.Context, r *model.StageRecord) (*model.StageRecord, error)

	// Get returns a record by ID. Returns sql.ErrNoRows when absent.
	Get(ctx context.Context, id string) (*model.StageRecord, error)

	// FindOpenSubmission returns the submitted record for (asset, stage),
	// or sql.ErrNoRows when the pair is free.
	FindOpenSubmission(ctx context.Context, assetID string, stage model.Stage) (*model.StageRecord, error)

	// ListByAsset returns all records of an asset in insertion order.
	ListByAsset(ctx context.Context, assetID string) ([]model.StageRecord, error)

	// ListSubmitted returns every open submission, newest first, optionally
	// scoped to assets owned by one organization.
	ListSubmitted(ctx context.Context, orgID *string) ([]model.StageRecord, error)

	// UpdateStatus moves a submitted record to a terminal status. Once a
	// record is terminal it is immutable: a second decision returns a
	// Conflict error, a missing record sql.ErrNoRows.
	UpdateStatus(ctx context.Context, id string, status model.StageStatus, approvedBy, rejectReason string) (*model.StageRecord, error)
}
