package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"assetreg/internal/model"
)

// AssetFilter narrows asset queries. Nil fields mean no filtering.
type AssetFilter struct {
	Stage *model.Stage
	OrgID *string
}

// ValuationSummary is the read-side aggregate over asset valuations.
// Total uses exact decimal arithmetic; monetary sums never touch floats.
type ValuationSummary struct {
	ValuedCount int
	Total       decimal.Decimal
}

// AssetRepository provides persistence for data assets plus the aggregate
// queries the rollups are computed from.
type AssetRepository interface {
	// Create inserts a new asset row and returns the stored record.
	Create(ctx context.Context, a *model.Asset) (*model.Asset, error)

	// FindByID returns an asset by its ID. Returns sql.ErrNoRows when absent.
	FindByID(ctx context.Context, id string) (*model.Asset, error)

	// List returns assets matching the filter, most recently created first.
	List(ctx context.Context, f AssetFilter) ([]model.Asset, error)

	// SetValuation records the assessed monetary value and accounting type.
	// Returns sql.ErrNoRows when the asset is absent.
	SetValuation(ctx context.Context, id string, amount decimal.Decimal, accountingType string) (*model.Asset, error)

	// AdvanceStage moves the asset's current stage from 'from' to 'to' only
	// if it still sits at 'from'. Returns the number of rows updated so the
	// caller can detect a lost race.
	AdvanceStage(ctx context.Context, id string, from, to model.Stage) (int64, error)

	// Count returns the number of assets, optionally scoped to one org.
	Count(ctx context.Context, orgID *string) (int, error)

	// CountByStage returns asset counts grouped by current stage; stages
	// with no assets are simply absent from the map.
	CountByStage(ctx context.Context, orgID *string) (map[model.Stage]int, error)

	// Valuation returns the count and exact sum of non-null valuations.
	Valuation(ctx context.Context, orgID *string) (*ValuationSummary, error)
}

// OrganizationRepository exposes the organization reference data the
// registry consumes; the directory itself is managed elsewhere.
type OrganizationRepository interface {
	Count(ctx context.Context) (int, error)
}
