package model

import "time"

// Material is an uploaded evidence file attached to a stage record. The
// digest is always recomputed server-side from the uploaded bytes; versions
// per (stage_record_id, file_name) start at 1 and only grow.
type Material struct {
	ID            string    `json:"id"`
	StageRecordID string    `json:"stage_record_id"`
	FileName      string    `json:"file_name"`
	FileSize      int64     `json:"file_size"`
	FileType      string    `json:"file_type"`
	HashSHA256    string    `json:"hash_sha256"`
	Version       int       `json:"version"`
	UploadedBy    string    `json:"uploaded_by"`
	CreatedAt     time.Time `json:"created_at"`
}
