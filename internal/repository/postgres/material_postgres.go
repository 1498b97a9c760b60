package postgres

import (
	"context"

	"assetreg/internal/apperr"
	"assetreg/internal/model"
	"assetreg/internal/repository"
)

// MaterialPostgres is a PostgreSQL implementation of repository.MaterialRepository.
type MaterialPostgres struct {
	db DBTX
}

// NewMaterialPostgres creates a new MaterialPostgres repository.
func NewMaterialPostgres(db DBTX) *MaterialPostgres {
	return &MaterialPostgres{db: db}
}

var _ repository.MaterialRepository = (*MaterialPostgres)(nil)

const materialColumns = `id, stage_record_id, file_name, file_size, file_type, hash_sha256, version, uploaded_by, created_at`

func scanMaterial(row interface{ Scan(dest ...any) error }) (*model.Material, error) {
	var m model.Material
	if err := row.Scan(
		&m.ID,
		&m.StageRecordID,
		&m.FileName,
		&m.FileSize,
		&m.FileType,
		&m.HashSHA256,
		&m.Version,
		&m.UploadedBy,
		&m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateVersioned inserts a material with version = max(version)+1 in a
// single statement. Under concurrency two inserts can compute the same
// version and the unique index rejects one. The first violation aborts the
// enclosing transaction, so each attempt runs under a savepoint; the loser
// rolls back to it and retries once with a fresh max. A second collision is
// surfaced as Conflict. Must be called inside a transaction.
func (r *MaterialPostgres) CreateVersioned(ctx context.Context, m *model.Material) (*model.Material, error) {
	const q = `
		INSERT INTO stage_materials (id, stage_record_id, file_name, file_size, file_type, hash_sha256, version, uploaded_by)
		SELECT $1, $2, $3, $4, $5, $6, COALESCE(MAX(version), 0) + 1, $7
		FROM stage_materials
		WHERE stage_record_id = $2 AND file_name = $3
		RETURNING ` + materialColumns

	const attempts = 2
	var lastErr error
	for i := 0; i < attempts; i++ {
		if _, err := r.db.ExecContext(ctx, `SAVEPOINT stage_material_version`); err != nil {
			return nil, err
		}
		row := r.db.QueryRowContext(ctx, q,
			m.ID,
			m.StageRecordID,
			m.FileName,
			m.FileSize,
			m.FileType,
			m.HashSHA256,
			m.UploadedBy,
		)
		out, err := scanMaterial(row)
		if err == nil {
			if _, err := r.db.ExecContext(ctx, `RELEASE SAVEPOINT stage_material_version`); err != nil {
				return nil, err
			}
			return out, nil
		}
		if !isUniqueViolation(err, "uq_stage_materials_version") {
			return nil, err
		}
		if _, rbErr := r.db.ExecContext(ctx, `ROLLBACK TO SAVEPOINT stage_material_version`); rbErr != nil {
			return nil, rbErr
		}
		lastErr = err
	}
	return nil, apperr.Wrap(lastErr, apperr.KindConflict, "lost version race for material upload")
}

// FindByID fetches a single material by its ID.
func (r *MaterialPostgres) FindByID(ctx context.Context, id string) (*model.Material, error) {
	const q = `SELECT ` + materialColumns + ` FROM stage_materials WHERE id = $1`
	return scanMaterial(r.db.QueryRowContext(ctx, q, id))
}

// ListByStageRecord returns a record's materials ordered by file name then
// version ascending.
func (r *MaterialPostgres) ListByStageRecord(ctx context.Context, stageRecordID string) ([]model.Material, error) {
	const q = `
		SELECT ` + materialColumns + `
		FROM stage_materials
		WHERE stage_record_id = $1
		ORDER BY file_name ASC, version ASC
	`
	rows, err := r.db.QueryContext(ctx, q, stageRecordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Material, 0)
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
