package database

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/srithedesigner/bunniesBurger/internal/common/logger"
)

// RunMigrations applies every pending .sql file under migrationsPath in
// lexical order, recording applied files in schema_migrations.
func (c *Conn) RunMigrations(ctx context.Context, migrationsPath string, log *logger.Logger) error {
	_, err := c.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			migration_name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	files, err := migrationFiles(migrationsPath)
	if err != nil {
		return fmt.Errorf("list migration files: %w", err)
	}

	applied, err := c.appliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("read applied migrations: %w", err)
	}

	for _, file := range files {
		if applied[file] {
			continue
		}
		if err := c.runOne(ctx, migrationsPath, file); err != nil {
			return fmt.Errorf("migration %s: %w", file, err)
		}
		if _, err := c.Exec(ctx,
			"INSERT INTO schema_migrations (migration_name) VALUES ($1)", file); err != nil {
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		log.Info("migration_applied", map[string]any{"file": file})
	}
	return nil
}

func migrationFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".sql") {
			files = append(files, filepath.Base(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (c *Conn) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := c.Query(ctx, "SELECT migration_name FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func (c *Conn) runOne(ctx context.Context, dir, file string) error {
	content, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	tx, err := c.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return tx.Commit(ctx)
}
