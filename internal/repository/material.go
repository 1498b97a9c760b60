package repository

import (
	"context"

	"assetreg/internal/model"
)

// MaterialRepository persists evidence metadata. Materials are permanent:
// there is no delete operation.
type MaterialRepository interface {
	// CreateVersioned inserts a material row whose version is assigned
	// atomically as max(version)+1 for (stage_record_id, file_name),
	// starting at 1. Concurrent uploads of the same file name never
	// observe the same version number.
	CreateVersioned(ctx context.Context, m *model.Material) (*model.Material, error)

	// FindByID returns a material by ID. Returns sql.ErrNoRows when absent.
	FindByID(ctx context.Context, id string) (*model.Material, error)

	// ListByStageRecord returns a record's materials ordered by
	// (file_name, version ascending).
	ListByStageRecord(ctx context.Context, stageRecordID string) ([]model.Material, error)
}
