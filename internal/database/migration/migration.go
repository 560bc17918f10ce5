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
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name          TEXT        NOT NULL,
  email         TEXT        NOT NULL UNIQUE,
  password_hash TEXT        NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_audits",
		SQL: `CREATE TABLE IF NOT EXISTS audits (
  id                      UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  lineage_id              TEXT        NOT NULL DEFAULT '',
  restaurant_name         TEXT        NOT NULL DEFAULT '',
  name_of_company         TEXT        NOT NULL DEFAULT '',
  fssai_license_no        TEXT        NOT NULL DEFAULT '',
  company_representatives JSONB       NOT NULL DEFAULT '[]',
  site_address            TEXT        NOT NULL DEFAULT '',
  state                   TEXT        NOT NULL DEFAULT '',
  pin_code                TEXT        NOT NULL DEFAULT '',
  phone_no                TEXT        NOT NULL DEFAULT '',
  email                   TEXT        NOT NULL DEFAULT '',
  website                 TEXT        NOT NULL DEFAULT '',
  audit_team              JSONB       NOT NULL DEFAULT '[]',
  date_of_audit           TIMESTAMPTZ,
  audit_type              TEXT        NOT NULL DEFAULT '',
  audit_criteria          TEXT        NOT NULL DEFAULT '',
  type_of_audit           TEXT        NOT NULL DEFAULT '',
  scope                   TEXT        NOT NULL DEFAULT '',
  manpower_male           INT         NOT NULL DEFAULT 0 CHECK (manpower_male >= 0),
  manpower_female         INT         NOT NULL DEFAULT 0 CHECK (manpower_female >= 0),
  sections                JSONB       NOT NULL DEFAULT '[]',
  status                  TEXT        NOT NULL CHECK (status IN ('FILLED', 'NOT FILLED')),
  version                 INT         NOT NULL DEFAULT 0 CHECK (version >= 0),
  user_id                 TEXT        NOT NULL DEFAULT '',
  created_at              TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at              TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		// One row per (lineage, version); a lost race on concurrent version
		// assignment surfaces as a unique violation instead of a silent
		// duplicate. Templates carry an empty lineage_id and are exempt.
		Name: "create_unique_index_audits_lineage_version",
		SQL: `CREATE UNIQUE INDEX IF NOT EXISTS uq_audits_lineage_version
  ON audits (lineage_id, version) WHERE lineage_id <> '';`,
	},
	{
		Name: "create_index_audits_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audits_status ON audits (status);`,
	},
	{
		Name: "create_index_audits_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audits_user_id ON audits (user_id);`,
	},
	{
		Name: "create_table_audit_versions",
		SQL: `CREATE TABLE IF NOT EXISTS audit_versions (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id        TEXT        NOT NULL,
  form_id        TEXT        NOT NULL,
  version_number INT         NOT NULL CHECK (version_number >= 1),
  pdf_key        TEXT        NOT NULL,
  pdf_url        TEXT        NOT NULL,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_audit_versions_form_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_versions_form_id ON audit_versions (form_id, version_number DESC);`,
	},
}

// EnsureMigrated checks if the 'audits' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.audits') IS NOT NULL"
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
