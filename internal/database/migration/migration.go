package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_organizations",
		SQL: `CREATE TABLE IF NOT EXISTS organizations (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name        TEXT        NOT NULL,
  org_type    TEXT        NOT NULL DEFAULT 'enterprise',
  credit_code TEXT        UNIQUE,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_data_assets",
		SQL: `CREATE TABLE IF NOT EXISTS data_assets (
  id                  UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name                TEXT        NOT NULL,
  description         TEXT        NOT NULL DEFAULT '',
  org_id              UUID        NOT NULL,
  current_stage       TEXT        NOT NULL DEFAULT 'resource_inventory',
  asset_type          TEXT        NOT NULL DEFAULT '',
  data_classification TEXT        NOT NULL DEFAULT '',
  valuation_amount    NUMERIC(18,2),
  accounting_type     TEXT        NOT NULL DEFAULT '',
  created_by          UUID        NOT NULL,
  created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_data_assets_org",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_data_assets_org ON data_assets (org_id);`,
	},
	{
		Name: "create_index_data_assets_stage",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_data_assets_stage ON data_assets (current_stage);`,
	},
	{
		Name: "create_table_stage_records",
		SQL: `CREATE TABLE IF NOT EXISTS stage_records (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  asset_id      UUID        NOT NULL REFERENCES data_assets (id),
  stage         TEXT        NOT NULL,
  status        TEXT        NOT NULL DEFAULT 'submitted',
  submitted_by  UUID        NOT NULL,
  approved_by   UUID,
  reject_reason TEXT        NOT NULL DEFAULT '',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		// At most one open submission per (asset, stage). This is the
		// engine's sole concurrency guard for submit and it survives
		// restarts and horizontal scaling, unlike an in-memory lock.
		Name: "create_unique_index_stage_records_open_submission",
		SQL: `CREATE UNIQUE INDEX IF NOT EXISTS uq_stage_records_open_submission
  ON stage_records (asset_id, stage) WHERE status = 'submitted';`,
	},
	{
		Name: "create_index_stage_records_asset",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_stage_records_asset ON stage_records (asset_id, created_at);`,
	},
	{
		Name: "create_table_stage_materials",
		SQL: `CREATE TABLE IF NOT EXISTS stage_materials (
  id              UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  stage_record_id UUID        NOT NULL REFERENCES stage_records (id),
  file_name       TEXT        NOT NULL,
  file_size       BIGINT      NOT NULL CHECK (file_size >= 0),
  file_type       TEXT        NOT NULL DEFAULT '',
  hash_sha256     CHAR(64)    NOT NULL,
  version         INTEGER     NOT NULL CHECK (version >= 1),
  uploaded_by     UUID        NOT NULL,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		// Version numbers per (record, file name) are assigned with an
		// insert-select; this index turns a lost race into a retryable
		// unique violation instead of a duplicate version.
		Name: "create_unique_index_stage_materials_version",
		SQL: `CREATE UNIQUE INDEX IF NOT EXISTS uq_stage_materials_version
  ON stage_materials (stage_record_id, file_name, version);`,
	},
	{
		Name: "create_table_audit_events",
		SQL: `CREATE TABLE IF NOT EXISTS audit_events (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id       UUID        NOT NULL,
  username      TEXT        NOT NULL DEFAULT '',
  action        TEXT        NOT NULL,
  resource_type TEXT        NOT NULL,
  resource_id   TEXT        NOT NULL DEFAULT '',
  detail        TEXT        NOT NULL DEFAULT '',
  ip_address    TEXT        NOT NULL DEFAULT '',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_audit_events_action",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_events_action ON audit_events (action, created_at);`,
	},
	{
		Name: "create_index_audit_events_resource",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_events_resource ON audit_events (resource_type, resource_id);`,
	},
}

// EnsureMigrated checks if the 'data_assets' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.data_assets') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
