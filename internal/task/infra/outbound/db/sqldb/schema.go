package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/davicafu/pagesort/shared/platform/query/sqlquery"
)

// ------------------ Inicialización del Esquema ------------------

var schemas = map[string][]string{
	sqlquery.SQLite.Name: {
		`CREATE TABLE IF NOT EXISTS tasks (
            id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            description TEXT,
            assignee_id TEXT NOT NULL,
            status TEXT NOT NULL,
            created_at DATETIME NOT NULL,
            updated_at DATETIME NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks (created_at)`,
	},
	sqlquery.Postgres.Name: {
		`CREATE TABLE IF NOT EXISTS tasks (
            id UUID PRIMARY KEY,
            title TEXT NOT NULL,
            description TEXT,
            assignee_id UUID NOT NULL,
            status TEXT NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE NOT NULL,
            updated_at TIMESTAMP WITH TIME ZONE NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks (created_at)`,
	},
	sqlquery.ClickHouse.Name: {
		`CREATE TABLE IF NOT EXISTS tasks (
            id String,
            title String,
            description String,
            assignee_id String,
            status LowCardinality(String),
            created_at DateTime64(3, 'UTC'),
            updated_at DateTime64(3, 'UTC')
        ) ENGINE = MergeTree ORDER BY (created_at, id)`,
	},
}

// InitSchema crea la tabla 'tasks' si no existe.
func InitSchema(ctx context.Context, db *sql.DB, dialect sqlquery.Dialect) error {
	stmts, ok := schemas[dialect.Name]
	if !ok {
		return fmt.Errorf("no tasks schema for dialect %q", dialect.Name)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create tasks table: %w", err)
		}
	}
	return nil
}
