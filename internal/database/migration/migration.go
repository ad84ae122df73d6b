package migration

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
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
  username      TEXT        NOT NULL UNIQUE,
  full_name     TEXT        NOT NULL DEFAULT '',
  password_hash TEXT        NOT NULL,
  is_staff      BOOLEAN     NOT NULL DEFAULT false,
  is_superuser  BOOLEAN     NOT NULL DEFAULT false,
  is_active     BOOLEAN     NOT NULL DEFAULT true,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_document_categories",
		SQL: `CREATE TABLE IF NOT EXISTS document_categories (
  id         BIGSERIAL   PRIMARY KEY,
  name       TEXT        NOT NULL,
  slug       TEXT        NOT NULL UNIQUE,
  parent_id  BIGINT      NULL REFERENCES document_categories (id) ON DELETE CASCADE,
  icon       TEXT        NOT NULL DEFAULT 'fa-folder',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_view_category_paths",
		SQL: `CREATE OR REPLACE VIEW category_paths AS
WITH RECURSIVE tree AS (
  SELECT id, slug::text AS full_path FROM document_categories WHERE parent_id IS NULL
  UNION ALL
  SELECT c.id, tree.full_path || '/' || c.slug
  FROM document_categories c JOIN tree ON c.parent_id = tree.id
)
SELECT id, full_path FROM tree;`,
	},
	{
		Name: "create_table_employees",
		SQL: `CREATE TABLE IF NOT EXISTS employees (
  id         BIGSERIAL   PRIMARY KEY,
  nip        TEXT        NOT NULL UNIQUE CHECK (nip ~ '^[0-9]{18}$'),
  name       TEXT        NOT NULL,
  position   TEXT        NOT NULL,
  department TEXT        NOT NULL DEFAULT '',
  is_active  BOOLEAN     NOT NULL DEFAULT true,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  file_path     TEXT        NOT NULL UNIQUE,
  file_name     TEXT        NOT NULL,
  file_size     BIGINT      NOT NULL DEFAULT 0 CHECK (file_size >= 0),
  page_count    INT         NOT NULL DEFAULT 0 CHECK (page_count >= 0),
  document_date DATE        NOT NULL,
  category_id   BIGINT      NOT NULL REFERENCES document_categories (id) ON DELETE RESTRICT,
  created_by    UUID        NOT NULL REFERENCES users (id) ON DELETE RESTRICT,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  version       INT         NOT NULL DEFAULT 1 CHECK (version >= 1),
  is_deleted    BOOLEAN     NOT NULL DEFAULT false,
  deleted_at    TIMESTAMPTZ NULL,
  CHECK (is_deleted = (deleted_at IS NOT NULL))
);`,
	},
	{
		Name: "create_index_documents_document_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_document_date ON documents (document_date DESC);`,
	},
	{
		Name: "create_index_documents_category_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_category_date ON documents (category_id, document_date);`,
	},
	{
		Name: "create_index_documents_created_by",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_by ON documents (created_by);`,
	},
	{
		Name: "create_index_documents_deleted",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_deleted ON documents (deleted_at) WHERE is_deleted;`,
	},
	{
		Name: "create_table_spd_documents",
		SQL: `CREATE TABLE IF NOT EXISTS spd_documents (
  document_id       UUID        PRIMARY KEY REFERENCES documents (id) ON DELETE CASCADE,
  employee_id       BIGINT      NOT NULL REFERENCES employees (id) ON DELETE RESTRICT,
  destination       TEXT        NOT NULL,
  destination_other TEXT        NOT NULL DEFAULT '',
  start_date        DATE        NOT NULL,
  end_date          DATE        NOT NULL,
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
  CHECK (end_date >= start_date)
);`,
	},
	{
		Name: "create_index_spd_employee_start",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_spd_employee_start ON spd_documents (employee_id, start_date);`,
	},
	{
		Name: "create_table_document_activities",
		SQL: `CREATE TABLE IF NOT EXISTS document_activities (
  id          BIGSERIAL   PRIMARY KEY,
  document_id UUID        NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
  user_id     UUID        NULL REFERENCES users (id) ON DELETE SET NULL,
  action_type TEXT        NOT NULL CHECK (action_type IN ('create', 'view', 'download', 'update', 'delete')),
  description TEXT        NOT NULL DEFAULT '',
  ip_address  TEXT        NULL,
  user_agent  TEXT        NOT NULL DEFAULT '',
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_activities_document",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_activities_document ON document_activities (document_id, created_at DESC);`,
	},
	{
		Name: "create_index_activities_user",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_activities_user ON document_activities (user_id, created_at DESC);`,
	},
}

const insertCategorySQL = `INSERT INTO document_categories (name, slug, parent_id, icon)
VALUES ($1, $2, (SELECT id FROM document_categories WHERE slug = $3), $4)
ON CONFLICT (slug) DO NOTHING`

//go:embed seed.yaml
var seedYAML []byte

type seedCategory struct {
	Name     string         `yaml:"name"`
	Slug     string         `yaml:"slug"`
	Icon     string         `yaml:"icon"`
	Children []seedCategory `yaml:"children"`
}

type seedFile struct {
	Categories []seedCategory `yaml:"categories"`
}

// EnsureMigrated creates the schema when the sentinel table is missing and
// then seeds the default category tree. Both parts are idempotent.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass('public.document_activities') IS NOT NULL").Scan(&exists)
	if err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.String("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("detail", "schema already exists, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	} else {
		log.Info("db_migration_start", zap.String("status", "in_progress"))
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
	}

	seeded, err := seedCategories(ctx, db)
	if err != nil {
		log.Error("db_seed_failed", zap.String("status", "error"), zap.Error(err))
		return err
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int("categories_seeded", seeded),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

// seedCategories inserts the embedded tree parents first and returns the
// number of rows actually created.
func seedCategories(ctx context.Context, db *sql.DB) (int, error) {
	var seed seedFile
	if err := yaml.Unmarshal(seedYAML, &seed); err != nil {
		return 0, fmt.Errorf("parse category seed: %w", err)
	}

	created := 0
	var insert func(cats []seedCategory, parent any) error
	insert = func(cats []seedCategory, parent any) error {
		for _, c := range cats {
			icon := c.Icon
			if icon == "" {
				icon = "fa-folder"
			}
			res, err := db.ExecContext(ctx, insertCategorySQL, c.Name, c.Slug, parent, icon)
			if err != nil {
				return fmt.Errorf("seed category %s: %w", c.Slug, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				created++
			}
			if err := insert(c.Children, c.Slug); err != nil {
				return err
			}
		}
		return nil
	}

	if err := insert(seed.Categories, nil); err != nil {
		return created, err
	}
	return created, nil
}
