package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_applicants",
		SQL: `CREATE TABLE IF NOT EXISTS applicants (
  id                  BIGSERIAL   PRIMARY KEY,
  first_name          TEXT        NOT NULL,
  last_name           TEXT        NOT NULL,
  age                 INTEGER     NOT NULL CHECK (age >= 18),
  degree              TEXT        NOT NULL,
  relevant_experience TEXT        NOT NULL,
  email               TEXT        NOT NULL,
  project_applied_for TEXT        NOT NULL,
  status              TEXT        NOT NULL DEFAULT 'pending',
  resume_file_name    TEXT,
  resume_content_type TEXT,
  resume_path         TEXT,
  created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
  CONSTRAINT applicants_resume_all_or_none CHECK (
    (resume_file_name IS NULL AND resume_content_type IS NULL AND resume_path IS NULL) OR
    (resume_file_name IS NOT NULL AND resume_content_type IS NOT NULL AND resume_path IS NOT NULL)
  )
);`,
	},
	{
		Name: "create_unique_index_applicants_email",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS uq_applicants_email ON applicants (email);`,
	},
	{
		Name: "create_index_applicants_project",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_applicants_project ON applicants (project_applied_for);`,
	},
	{
		Name: "create_index_applicants_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_applicants_status ON applicants (status);`,
	},
}

// EnsureMigrated checks if the 'applicants' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *slog.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With("component", "database", "db_host", dbHost)

	log.Info("db_migration_check", "event", "db_migration_check", "status", "starting")

	var exists bool
	query := "SELECT to_regclass('public.applicants') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			"event", "db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("schema already exists, skipping migration",
			"event", "db_migration_skip",
			"status", "success",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.Info("db_migration_start", "event", "db_migration_start", "status", "in_progress")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				"event", "db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			"event", "db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.Info("db_migration_success",
		"event", "db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}
