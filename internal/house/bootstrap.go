package house

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"
)

//go:embed scripts/schema.sql
var bootstrapFS embed.FS

const schemaVersion = 1

// ensureBootstrapped creates the schema unless the meta table already
// records the current version.
func ensureBootstrapped(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
		  SELECT 1 FROM information_schema.tables
		  WHERE table_name = 'housefinder_meta'
		)`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("meta table check: %w", err)
	}
	if exists {
		var hasVersion bool
		if err := db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM housefinder_meta WHERE version = $1)`, schemaVersion,
		).Scan(&hasVersion); err != nil {
			return fmt.Errorf("meta version check: %w", err)
		}
		if hasVersion {
			return nil
		}
	}
	return runBootstrap(ctx, db)
}

func runBootstrap(ctx context.Context, db *sql.DB) error {
	script, err := bootstrapFS.ReadFile("scripts/schema.sql")
	if err != nil {
		return fmt.Errorf("read schema.sql: %w", err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if _, err := tx.ExecContext(ctx, string(script)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("exec schema.sql: %w", err)
	}
	return tx.Commit()
}
