package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"sound-byte/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations/*.up.sql
var migrationFiles embed.FS

// Migrations returns the bundled schema migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

const createMigrationsTable = `CREATE TABLE schema_migrations (
	version VARCHAR2(255) PRIMARY KEY,
	applied_at TIMESTAMP DEFAULT SYSTIMESTAMP NOT NULL
)`

// oraNameInUse is raised by CREATE when the object already exists.
const oraNameInUse = "ORA-00955"

// RunMigrations applies every *.up.sql file of fsys in name order, skipping
// versions recorded in schema_migrations. Files may hold several statements
// separated by a line containing only "/".
func RunMigrations(ctx context.Context, db *sqlx.DB, fsys fs.FS) error {
	log := logger.Get()

	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil && !strings.Contains(err.Error(), oraNameInUse) {
		return fmt.Errorf("could not create schema_migrations: %w", err)
	}

	var applied []string
	if err := db.SelectContext(ctx, &applied, `SELECT version FROM schema_migrations`); err != nil {
		return fmt.Errorf("could not read applied migrations: %w", err)
	}

	names, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return fmt.Errorf("could not list migrations: %w", err)
	}
	slices.Sort(names)

	for _, name := range names {
		version := strings.TrimSuffix(path.Base(name), ".up.sql")
		if slices.Contains(applied, version) {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}

		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("could not begin migration %s: %w", name, err)
		}
		for _, stmt := range SplitStatements(string(content)) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("could not execute migration %s: %w", name, err)
			}
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO schema_migrations (version) VALUES (?)`), version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("could not record migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("could not commit migration %s: %w", name, err)
		}

		log.Info("Executed migration", zap.String("version", version))
	}

	log.Info("Migrations completed successfully", zap.Int("available", len(names)), zap.Int("previously_applied", len(applied)))
	return nil
}

// SplitStatements breaks a script on lines holding a single "/". Blank
// chunks and "--" comment lines are dropped, as is a trailing ";" since
// Oracle rejects it outside PL/SQL.
func SplitStatements(script string) []string {
	var (
		out     []string
		current []string
	)
	flush := func() {
		stmt := strings.TrimSpace(strings.Join(current, "\n"))
		current = current[:0]
		if stmt == "" {
			return
		}
		if !strings.HasSuffix(strings.ToUpper(stmt), "END;") {
			stmt = strings.TrimSuffix(stmt, ";")
		}
		out = append(out, stmt)
	}
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "/":
			flush()
		case strings.HasPrefix(trimmed, "--"):
		default:
			current = append(current, line)
		}
	}
	flush()
	return out
}
