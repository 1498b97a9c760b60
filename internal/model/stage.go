package model

// Stage is one of the eight ordered phases of a data asset's lifecycle.
type Stage string

const (
	StageResourceInventory    Stage = "resource_inventory"
	StageAssetInventory       Stage = "asset_inventory"
	StageUsageScenario        Stage = "usage_scenario"
	StageComplianceAssessment Stage = "compliance_assessment"
	StageQualityReport        Stage = "quality_report"
	StageAccountingGuidance   Stage = "accounting_guidance"
	StageValueAssessment      Stage = "value_assessment"
	StageOperation            Stage = "operation"
)

// StageOrder lists all lifecycle stages in progression order. A rollup's
// stage distribution iterates this slice so every stage is present even when
// its count is zero.
var StageOrder = []Stage{
	StageResourceInventory,
	StageAssetInventory,
	StageUsageScenario,
	StageComplianceAssessment,
	StageQualityReport,
	StageAccountingGuidance,
	StageValueAssessment,
	StageOperation,
}

// Valid reports whether s is a known lifecycle stage.
func (s Stage) Valid() bool {
	for _, st := range StageOrder {
		if st == s {
			return true
		}
	}
	return false
}

// Next returns the stage that follows s. ok is false when s is the terminal
// operation stage or not a known stage.
func (s Stage) Next() (next Stage, ok bool) {
	for i, st := range StageOrder {
		if st == s {
			if i+1 < len(StageOrder) {
				return StageOrder[i+1], true
			}
			return "", false
		}
	}
	return "", false
}
