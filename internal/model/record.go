package model

import "time"

// StageStatus is the decision state of a stage submission.
type StageStatus string

const (
	StatusSubmitted StageStatus = "submitted"
	StatusApproved  StageStatus = "approved"
	StatusRejected  StageStatus = "rejected"
)

// Terminal reports whether the status is a final decision. Terminal records
// are immutable and freeze their attached materials.
func (s StageStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// StageRecord is the submission-and-decision unit for one (asset, stage)
// pair. Created on submission, mutated exactly once to a terminal status,
// never deleted.
type StageRecord struct {
	ID           string      `json:"id"`
	AssetID      string      `json:"asset_id"`
	Stage        Stage       `json:"stage"`
	Status       StageStatus `json:"status"`
	SubmittedBy  string      `json:"submitted_by"`
	ApprovedBy   *string     `json:"approved_by"`
	RejectReason string      `json:"reject_reason,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
