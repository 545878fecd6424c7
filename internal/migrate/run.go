// Package migrate applies the embedded SQL migrations that define the portal
// schema (accounts, user_documents). Each migration runs in its own
// transaction and is recorded in schema_migrations, so Run is idempotent.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const versionTableDDL = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// migration pairs a version string with the embedded file it came from.
// Versions are the file name without the .sql suffix, e.g. "0001_accounts".
type migration struct {
	version string
	file    string
}

// Run applies every embedded migration that has not been recorded yet.
// Safe to call on every startup.
func Run(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, versionTableDDL); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	pending, err := loadMigrations()
	if err != nil {
		return err
	}

	logger := slog.Default().With("component", "migrations")
	for _, m := range pending {
		applied, err := isApplied(ctx, db, m)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		if err := apply(ctx, db, logger, m); err != nil {
			return err
		}
	}
	return nil
}

// loadMigrations lists the embedded migration files in version order.
func loadMigrations() ([]migration, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("list embedded migrations: %w", err)
	}

	migrations := make([]migration, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		migrations = append(migrations, migration{
			version: strings.TrimSuffix(name, ".sql"),
			file:    name,
		})
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].version < migrations[j].version
	})
	return migrations, nil
}

func isApplied(ctx context.Context, db *sql.DB, m migration) (bool, error) {
	var applied bool
	const query = `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`
	if err := db.QueryRowContext(ctx, query, m.version).Scan(&applied); err != nil {
		return false, fmt.Errorf("check migration %s: %w", m.version, err)
	}
	return applied, nil
}

// apply executes one migration and records its version in a single
// transaction, so a failed migration leaves no partial state behind.
func apply(ctx context.Context, db *sql.DB, logger *slog.Logger, m migration) error {
	ddl, err := migrationsFS.ReadFile("migrations/" + m.file)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", m.file, err)
	}

	logger.InfoContext(ctx, "applying migration", "version", m.version)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			logger.ErrorContext(ctx, "migration rollback failed", "err", rollbackErr, "version", m.version)
		}
	}()

	if _, err := tx.ExecContext(ctx, string(ddl)); err != nil {
		return fmt.Errorf("exec migration %s: %w", m.version, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.version); err != nil {
		return fmt.Errorf("record migration %s: %w", m.version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", m.version, err)
	}
	return nil
}
