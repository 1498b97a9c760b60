package postgres

import (
	"context"
	"database/sql"
	"time"

	"assetreg/internal/repository"
)

const defaultTxTimeout = 5 * time.Second

// Tx runs a function against repositories bound to one database
// transaction. A nil error commits; anything else rolls back, so a mutation
// whose audit write fails never becomes visible.
type Tx struct {
	db      *sql.DB
	timeout time.Duration
}

// NewTx creates the transactional boundary over db.
func NewTx(db *sql.DB) *Tx {
	return &Tx{db: db}
}

var _ repository.Tx = (*Tx)(nil)

func (t *Tx) RunInTx(ctx context.Context, fn func(s repository.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stores := repository.Stores{
		Assets:    NewAssetPostgres(tx),
		Records:   NewStageRecordPostgres(tx),
		Materials: NewMaterialPostgres(tx),
		Audit:     NewAuditPostgres(tx),
	}
	if err := fn(stores); err != nil {
		return err
	}
	return tx.Commit()
}
