package service

import (
	"context"

	"github.com/shopspring/decimal"

	"assetreg/internal/model"
	"assetreg/internal/repository"
)

// StageCount is one bucket of the stage distribution.
type StageCount struct {
	Stage model.Stage `json:"stage"`
	Count int         `json:"count"`
}

// CityRollup is the registry-wide aggregate served to the city dashboard.
type CityRollup struct {
	TotalAssets       int          `json:"total_assets"`
	StageDistribution []StageCount `json:"stage_distribution"`
	OrgCount          int          `json:"org_count"`
}

// HolderRollup is the per-organization aggregate, including valuation totals.
type HolderRollup struct {
	TotalAssets       int             `json:"total_assets"`
	StageDistribution []StageCount    `json:"stage_distribution"`
	ValuedCount       int             `json:"valued_count"`
	TotalValuation    decimal.Decimal `json:"total_valuation"`
}

// StatsService computes read-side rollups. Both rollups return a dense stage
// distribution covering every lifecycle stage in order, including zero
// buckets, so consumers never have to know the stage list themselves.
type StatsService interface {
	CityRollup(ctx context.Context) (*CityRollup, error)
	HolderRollup(ctx context.Context, orgID string) (*HolderRollup, error)
}

type statsService struct {
	assets repository.AssetRepository
	orgs   repository.OrganizationRepository
}

// NewStatsService constructs a StatsService.
func NewStatsService(assets repository.AssetRepository, orgs repository.OrganizationRepository) StatsService {
	return &statsService{assets: assets, orgs: orgs}
}

func (s *statsService) CityRollup(ctx context.Context) (*CityRollup, error) {
	total, err := s.assets.Count(ctx, nil)
	if err != nil {
		return nil, err
	}
	byStage, err := s.assets.CountByStage(ctx, nil)
	if err != nil {
		return nil, err
	}
	orgCount, err := s.orgs.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &CityRollup{
		TotalAssets:       total,
		StageDistribution: denseDistribution(byStage),
		OrgCount:          orgCount,
	}, nil
}

func (s *statsService) HolderRollup(ctx context.Context, orgID string) (*HolderRollup, error) {
	total, err := s.assets.Count(ctx, &orgID)
	if err != nil {
		return nil, err
	}
	byStage, err := s.assets.CountByStage(ctx, &orgID)
	if err != nil {
		return nil, err
	}
	val, err := s.assets.Valuation(ctx, &orgID)
	if err != nil {
		return nil, err
	}
	return &HolderRollup{
		TotalAssets:       total,
		StageDistribution: denseDistribution(byStage),
		ValuedCount:       val.ValuedCount,
		TotalValuation:    val.Total,
	}, nil
}

func denseDistribution(byStage map[model.Stage]int) []StageCount {
	out := make([]StageCount, 0, len(model.StageOrder))
	for _, st := range model.StageOrder {
		out = append(out, StageCount{Stage: st, Count: byStage[st]})
	}
	return out
}
