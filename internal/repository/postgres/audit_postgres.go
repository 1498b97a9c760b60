package postgres

import (
	"context"
	"fmt"

	"assetreg/internal/model"
	"assetreg/internal/repository"
)

// AuditPostgres is a PostgreSQL implementation of the append-only audit
// trail. The table has no UPDATE or DELETE path.
type AuditPostgres struct {
	db DBTX
}

// NewAuditPostgres creates a new AuditPostgres repository.
func NewAuditPostgres(db DBTX) *AuditPostgres {
	return &AuditPostgres{db: db}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

const auditColumns = `id, user_id, username, action, resource_type, resource_id, detail, ip_address, created_at`

// Create appends one audit event.
func (r *AuditPostgres) Create(ctx context.Context, e *model.AuditEvent) (*model.AuditEvent, error) {
	const q = `
		INSERT INTO audit_events (id, user_id, username, action, resource_type, resource_id, detail, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + auditColumns
	row := r.db.QueryRowContext(ctx, q,
		e.ID,
		e.UserID,
		e.Username,
		e.Action,
		e.ResourceType,
		e.ResourceID,
		e.Detail,
		e.IPAddress,
	)
	var out model.AuditEvent
	if err := row.Scan(
		&out.ID,
		&out.UserID,
		&out.Username,
		&out.Action,
		&out.ResourceType,
		&out.ResourceID,
		&out.Detail,
		&out.IPAddress,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns events most recent first, capped at the filter limit.
func (r *AuditPostgres) List(ctx context.Context, f repository.AuditFilter) ([]model.AuditEvent, error) {
	q := `SELECT ` + auditColumns + ` FROM audit_events WHERE 1=1`
	args := make([]any, 0, 3)
	if f.Action != "" {
		args = append(args, f.Action)
		q += fmt.Sprintf(" AND action = $%d", len(args))
	}
	if f.ResourceType != "" {
		args = append(args, f.ResourceType)
		q += fmt.Sprintf(" AND resource_type = $%d", len(args))
	}
	args = append(args, f.Limit)
	q += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AuditEvent, 0)
	for rows.Next() {
		var e model.AuditEvent
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Username,
			&e.Action,
			&e.ResourceType,
			&e.ResourceID,
			&e.Detail,
			&e.IPAddress,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
