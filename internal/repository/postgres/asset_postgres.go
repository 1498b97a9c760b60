package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"assetreg/internal/model"
	"assetreg/internal/repository"
)

// AssetPostgres is a PostgreSQL implementation of repository.AssetRepository.
type AssetPostgres struct {
	db DBTX
}

// NewAssetPostgres creates a new AssetPostgres repository.
func NewAssetPostgres(db DBTX) *AssetPostgres {
	return &AssetPostgres{db: db}
}

var _ repository.AssetRepository = (*AssetPostgres)(nil)

const assetColumns = `id, name, description, org_id, current_stage, asset_type,
		data_classification, valuation_amount, accounting_type, created_by, created_at, updated_at`

func scanAsset(row interface{ Scan(dest ...any) error }) (*model.Asset, error) {
	var (
		a         model.Asset
		valuation sql.NullString
	)
	if err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Description,
		&a.OrgID,
		&a.CurrentStage,
		&a.AssetType,
		&a.DataClassification,
		&valuation,
		&a.AccountingType,
		&a.CreatedBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if valuation.Valid {
		d, err := decimal.NewFromString(valuation.String)
		if err != nil {
			return nil, fmt.Errorf("parse valuation_amount: %w", err)
		}
		a.ValuationAmount = &d
	}
	return &a, nil
}

// Create inserts a new asset row and returns the stored record.
func (r *AssetPostgres) Create(ctx context.Context, a *model.Asset) (*model.Asset, error) {
	const q = `
		INSERT INTO data_assets (id, name, description, org_id, current_stage, asset_type, data_classification, accounting_type, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + assetColumns
	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.Name,
		a.Description,
		a.OrgID,
		a.CurrentStage,
		a.AssetType,
		a.DataClassification,
		a.AccountingType,
		a.CreatedBy,
	)
	return scanAsset(row)
}

// FindByID fetches a single asset by its ID.
func (r *AssetPostgres) FindByID(ctx context.Context, id string) (*model.Asset, error) {
	const q = `SELECT ` + assetColumns + ` FROM data_assets WHERE id = $1`
	return scanAsset(r.db.QueryRowContext(ctx, q, id))
}

// List returns assets matching the filter, most recently created first.
func (r *AssetPostgres) List(ctx context.Context, f repository.AssetFilter) ([]model.Asset, error) {
	q := `SELECT ` + assetColumns + ` FROM data_assets WHERE 1=1`
	args := make([]any, 0, 2)
	if f.Stage != nil {
		args = append(args, *f.Stage)
		q += fmt.Sprintf(" AND current_stage = $%d", len(args))
	}
	if f.OrgID != nil {
		args = append(args, *f.OrgID)
		q += fmt.Sprintf(" AND org_id = $%d", len(args))
	}
	q += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Asset, 0)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// SetValuation records the assessed value. The amount travels as a string so
// the NUMERIC column receives the exact decimal representation.
func (r *AssetPostgres) SetValuation(ctx context.Context, id string, amount decimal.Decimal, accountingType string) (*model.Asset, error) {
	const q = `
		UPDATE data_assets
		SET valuation_amount = $1, accounting_type = $2, updated_at = now()
		WHERE id = $3
		RETURNING ` + assetColumns
	return scanAsset(r.db.QueryRowContext(ctx, q, amount.String(), accountingType, id))
}

// AdvanceStage conditionally moves current_stage; zero rows means the asset
// was not at 'from' anymore.
func (r *AssetPostgres) AdvanceStage(ctx context.Context, id string, from, to model.Stage) (int64, error) {
	const q = `
		UPDATE data_assets
		SET current_stage = $1, updated_at = now()
		WHERE id = $2 AND current_stage = $3
	`
	res, err := r.db.ExecContext(ctx, q, to, id, from)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Count returns the number of assets, optionally scoped to one org.
func (r *AssetPostgres) Count(ctx context.Context, orgID *string) (int, error) {
	var (
		total int
		err   error
	)
	if orgID != nil {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM data_assets WHERE org_id = $1`, *orgID).Scan(&total)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM data_assets`).Scan(&total)
	}
	return total, err
}

// CountByStage groups asset counts by current stage.
func (r *AssetPostgres) CountByStage(ctx context.Context, orgID *string) (map[model.Stage]int, error) {
	q := `SELECT current_stage, COUNT(*) FROM data_assets`
	args := []any{}
	if orgID != nil {
		q += ` WHERE org_id = $1`
		args = append(args, *orgID)
	}
	q += ` GROUP BY current_stage`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.Stage]int)
	for rows.Next() {
		var (
			stage model.Stage
			n     int
		)
		if err := rows.Scan(&stage, &n); err != nil {
			return nil, err
		}
		counts[stage] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// Valuation sums non-null valuations in the database and returns the total
// as an exact decimal.
func (r *AssetPostgres) Valuation(ctx context.Context, orgID *string) (*repository.ValuationSummary, error) {
	q := `SELECT COUNT(valuation_amount), COALESCE(SUM(valuation_amount), 0) FROM data_assets`
	args := []any{}
	if orgID != nil {
		q += ` WHERE org_id = $1`
		args = append(args, *orgID)
	}

	var (
		count int
		total string
	)
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&count, &total); err != nil {
		return nil, err
	}
	sum, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("parse valuation total: %w", err)
	}
	return &repository.ValuationSummary{ValuedCount: count, Total: sum}, nil
}

// OrganizationPostgres implements repository.OrganizationRepository.
type OrganizationPostgres struct {
	db DBTX
}

func NewOrganizationPostgres(db DBTX) *OrganizationPostgres {
	return &OrganizationPostgres{db: db}
}

var _ repository.OrganizationRepository = (*OrganizationPostgres)(nil)

func (r *OrganizationPostgres) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM organizations`).Scan(&total)
	return total, err
}
