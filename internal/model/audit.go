package model

import "time"

// AuditEvent is one row of the append-only audit trail. Events reference
// resources weakly by type+id and are never updated or deleted.
type AuditEvent struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username,omitempty"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	IPAddress    string    `json:"ip_address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Audit actions emitted by the engine.
const (
	ActionAssetCreate    = "asset.create"
	ActionAssetValuation = "asset.valuation"
	ActionStageSubmit    = "stage.submit"
	ActionStageApprove   = "stage.approve"
	ActionStageReject    = "stage.reject"
	ActionMaterialUpload = "material.upload"
)

// Audit resource types.
const (
	ResourceAsset       = "asset"
	ResourceStageRecord = "stage_record"
	ResourceMaterial    = "material"
)
