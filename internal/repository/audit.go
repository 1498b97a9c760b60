package repository

import (
	"context"

	"assetreg/internal/model"
)

// AuditFilter narrows audit event listings. Empty strings mean no filter.
type AuditFilter struct {
	Action       string
	ResourceType string
	Limit        int
}

// AuditRepository is the append-only audit trail. Events are never updated
// or deleted.
type AuditRepository interface {
	// Create appends one event and returns it with generated fields.
	Create(ctx context.Context, e *model.AuditEvent) (*model.AuditEvent, error)

	// List returns events most recent first, capped at the filter limit.
	List(ctx context.Context, f AuditFilter) ([]model.AuditEvent, error)
}
