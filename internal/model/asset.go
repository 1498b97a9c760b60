package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset is a registered data asset progressing through the lifecycle.
// Pure domain model with no persistence coupling; shared across layers.
type Asset struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	OrgID              string           `json:"org_id"`
	CurrentStage       Stage            `json:"current_stage"`
	AssetType          string           `json:"asset_type,omitempty"`
	DataClassification string           `json:"data_classification,omitempty"`
	ValuationAmount    *decimal.Decimal `json:"valuation_amount"`
	AccountingType     string           `json:"accounting_type,omitempty"`
	CreatedBy          string           `json:"created_by"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// Organization owns assets. Directory management is external; the registry
// only references organizations and counts them for rollups.
type Organization struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	OrgType    string    `json:"org_type"`
	CreditCode string    `json:"credit_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
