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
		Name: "create_table_actors",
		SQL: `CREATE TABLE IF NOT EXISTS actors (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  username     TEXT        NOT NULL UNIQUE,
  display_name TEXT        NOT NULL DEFAULT '',
  role         TEXT        NOT NULL CHECK (role IN ('lead', 'member', 'unit')),
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		// plan_id is UNIQUE: a plan has at most one live explanation request.
		// Plans themselves are owned by the surrounding console, so plan_id
		// carries no foreign key here.
		Name: "create_table_explanation_requests",
		SQL: `CREATE TABLE IF NOT EXISTS explanation_requests (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  plan_id      UUID        NOT NULL UNIQUE,
  requester_id UUID        NOT NULL REFERENCES actors (id),
  responder_id UUID        NOT NULL REFERENCES actors (id),
  status       TEXT        NOT NULL DEFAULT 'pending'
                           CHECK (status IN ('pending', 'completed', 'approved', 'rejected')),
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_request_files",
		SQL: `CREATE TABLE IF NOT EXISTS request_files (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  request_id   UUID        NOT NULL REFERENCES explanation_requests (id) ON DELETE CASCADE,
  file_name    TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  file_url     TEXT        NOT NULL,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  content_type TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_explanation_contents",
		SQL: `CREATE TABLE IF NOT EXISTS explanation_contents (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  request_id   UUID        NOT NULL REFERENCES explanation_requests (id) ON DELETE CASCADE,
  body         TEXT        NOT NULL DEFAULT '',
  file_name    TEXT        NOT NULL DEFAULT '',
  storage_path TEXT        NOT NULL DEFAULT '',
  file_url     TEXT        NOT NULL DEFAULT '',
  status       TEXT        NOT NULL DEFAULT 'awaiting_review'
                           CHECK (status IN ('awaiting_review', 'passed', 'failed', 'revised')),
  reviewer_id  UUID        NULL REFERENCES actors (id),
  reviewed_at  TIMESTAMPTZ NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_request_files_request_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_request_files_request_id ON request_files (request_id);`,
	},
	{
		Name: "create_index_explanation_contents_request_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_explanation_contents_request_id ON explanation_contents (request_id);`,
	},
	{
		Name: "create_index_explanation_contents_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_explanation_contents_created_at ON explanation_contents (created_at);`,
	},
	{
		Name: "create_index_explanation_requests_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_explanation_requests_status ON explanation_requests (status);`,
	},
}

// EnsureMigrated checks if the 'explanation_requests' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.explanation_requests') IS NOT NULL"
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
