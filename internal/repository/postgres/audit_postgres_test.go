package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetreg/internal/model"
	"assetreg/internal/repository"
)

func auditRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "username", "action", "resource_type", "resource_id", "detail", "ip_address", "created_at",
	})
}

func TestAuditPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	e := &model.AuditEvent{
		ID:           "evt-1",
		UserID:       "user-a",
		Username:     "alice",
		Action:       model.ActionStageSubmit,
		ResourceType: model.ResourceStageRecord,
		ResourceID:   "rec-1",
		Detail:       "stage resource_inventory submitted",
	}

	mock.ExpectQuery("INSERT INTO audit_events").
		WithArgs(e.ID, e.UserID, e.Username, e.Action, e.ResourceType, e.ResourceID, e.Detail, e.IPAddress).
		WillReturnRows(auditRows().AddRow(e.ID, e.UserID, e.Username, e.Action, e.ResourceType, e.ResourceID, e.Detail, "", time.Now()))

	out, err := NewAuditPostgres(db).Create(context.Background(), e)
	assert.NoError(t, err)
	assert.Equal(t, model.ActionStageSubmit, out.Action)
	assert.False(t, out.CreatedAt.IsZero())
}

func TestAuditPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t.Run("both filters", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM audit_events").
			WithArgs(model.ActionStageApprove, model.ResourceStageRecord, 10).
			WillReturnRows(auditRows().AddRow("evt-2", "rev-1", "", model.ActionStageApprove, model.ResourceStageRecord, "rec-1", "", "", time.Now()))

		out, err := NewAuditPostgres(db).List(context.Background(), repository.AuditFilter{
			Action:       model.ActionStageApprove,
			ResourceType: model.ResourceStageRecord,
			Limit:        10,
		})
		assert.NoError(t, err)
		assert.Len(t, out, 1)
	})

	t.Run("limit only", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM audit_events").
			WithArgs(50).
			WillReturnRows(auditRows())

		out, err := NewAuditPostgres(db).List(context.Background(), repository.AuditFilter{Limit: 50})
		assert.NoError(t, err)
		assert.Empty(t, out)
	})
}
