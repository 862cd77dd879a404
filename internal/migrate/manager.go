package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const defaultTable = "schema_migrations"

// Manager applies SQL migration files from a directory in lexical order,
// recording applied files in a bookkeeping table.
type Manager struct {
	db    *sql.DB
	dir   string
	table string
}

// NewManager constructs a Manager over db reading *.up.sql files from dir.
func NewManager(db *sql.DB, dir string) *Manager {
	return &Manager{db: db, dir: dir, table: defaultTable}
}

// Up applies all pending migrations.
func (m *Manager) Up(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, fmt.Sprintf(
		`create table if not exists %s (name text primary key, applied_at timestamptz not null default now())`,
		m.table)); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return err
	}
	files, err := m.pending()
	if err != nil {
		return err
	}

	for _, file := range files {
		base := filepath.Base(file)
		if applied[base] {
			continue
		}
		contents, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", base, err)
		}

		tx, err := m.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, string(contents)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %s: %w", base, err)
		}
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`insert into %s (name) values ($1)`, m.table), base); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", base, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) applied(ctx context.Context) (map[string]bool, error) {
	rows, err := m.db.QueryContext(ctx, fmt.Sprintf(`select name from %s`, m.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		result[name] = true
	}
	return result, rows.Err()
}

func (m *Manager) pending() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		files = append(files, filepath.Join(m.dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
