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
		Name: "create_type_document_status",
		SQL: `DO $$ BEGIN
  CREATE TYPE document_status AS ENUM ('uploading', 'processing', 'completed', 'failed');
EXCEPTION WHEN duplicate_object THEN NULL;
END $$;`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id                  UUID        PRIMARY KEY,
  email               TEXT        NOT NULL UNIQUE,
  full_name           TEXT,
  role                TEXT        NOT NULL DEFAULT 'member',
  storage_used_bytes  BIGINT      NOT NULL DEFAULT 0,
  storage_limit_bytes BIGINT      NOT NULL DEFAULT 1073741824
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id               UUID            PRIMARY KEY,
  user_id          UUID            NOT NULL REFERENCES users (id),
  workspace_id     UUID,
  title            TEXT            NOT NULL,
  file_name        TEXT            NOT NULL,
  file_type        TEXT            NOT NULL,
  mime_type        TEXT            NOT NULL,
  file_path        TEXT,
  file_size_bytes  BIGINT          NOT NULL CHECK (file_size_bytes >= 0),
  content          TEXT,
  summary          TEXT,
  status           document_status NOT NULL DEFAULT 'uploading',
  processing_error TEXT,
  created_at       TIMESTAMPTZ     NOT NULL DEFAULT now(),
  updated_at       TIMESTAMPTZ     NOT NULL DEFAULT now(),
  deleted_at       TIMESTAMPTZ
);`,
	},
	{
		Name: "create_index_documents_user_created",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_user_created ON documents (user_id, created_at DESC);`,
	},
	{
		Name: "create_index_documents_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_status ON documents (status);`,
	},
}

// EnsureMigrated checks whether the documents table exists and runs the
// schema steps if it does not.
func EnsureMigrated(ctx context.Context, db *sql.DB) error {
	start := time.Now()

	var exists bool
	query := "SELECT to_regclass('public.documents') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		logJSON(map[string]any{
			"level":         "error",
			"component":     "database",
			"event":         "db_migration_failed",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(map[string]any{
			"level":       "info",
			"component":   "database",
			"event":       "db_migration_skip",
			"msg":         "schema already exists, skipping migration",
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			logJSON(map[string]any{
				"level":          "error",
				"component":      "database",
				"event":          "db_migration_failed",
				"migration_step": step.Name,
				"error_message":  err.Error(),
				"duration_ms":    time.Since(start).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(map[string]any{
			"level":            "info",
			"component":        "database",
			"event":            "db_migration_step",
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(map[string]any{
		"level":       "info",
		"component":   "database",
		"event":       "db_migration_success",
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
