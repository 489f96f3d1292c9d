package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_articles",
		SQL: `CREATE TABLE IF NOT EXISTS articles (
  id               UUID        PRIMARY KEY,
  title            TEXT        NOT NULL CHECK (btrim(title) <> ''),
  authors          TEXT        NOT NULL CHECK (btrim(authors) <> ''),
  abstract         TEXT,
  full_text        TEXT        NOT NULL CHECK (btrim(full_text) <> ''),
  publication_date DATE        NOT NULL,
  doi              TEXT,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_articles_publication_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_articles_publication_date ON articles (publication_date DESC);`,
	},
	{
		Name: "create_table_citations",
		SQL: `CREATE TABLE IF NOT EXISTS citations (
  id         UUID        PRIMARY KEY,
  article_id UUID        NOT NULL REFERENCES articles (id) ON DELETE CASCADE,
  authors    TEXT        NOT NULL CHECK (btrim(authors) <> ''),
  title      TEXT        NOT NULL CHECK (btrim(title) <> ''),
  year       INTEGER,
  doi        TEXT,
  notes      TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_citations_article_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_citations_article_id ON citations (article_id, created_at DESC);`,
	},
}

// sentinelQuery checks for the last table created by the steps.
const sentinelQuery = "SELECT to_regclass('public.citations') IS NOT NULL"

// EnsureMigrated runs the schema steps unless the sentinel table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	if err := db.QueryRowContext(ctx, sentinelQuery).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("reason", "schema already exists"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"), zap.Int("steps", len(steps)))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
