package repository

import "context"

// Stores bundles the repositories visible inside one transaction.
type Stores struct {
	Assets    AssetRepository
	Records   StageRecordRepository
	Materials MaterialRepository
	Audit     AuditRepository
}

// Tx is the engine's single transactional boundary. Submit, approve and
// reject commit their record mutation, the asset stage advancement and the
// audit event as one unit; a failure anywhere (including the audit write)
// rolls everything back.
type Tx interface {
	RunInTx(ctx context.Context, fn func(s Stores) error) error
}
