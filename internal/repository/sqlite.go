package repository

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/surakshapay/vigil/internal/domain"
	_ "modernc.org/sqlite"
)

// openSQLite opens the Community tier audit store. The pure Go driver
// keeps the binary CGO-free so a single static vigil binary runs on
// the low-resource hosts the Community tier targets.
func openSQLite(cfg domain.RepositoryConfig) (*sql.DB, error) {
	path := cfg.SQLitePath
	if path == "" {
		path = "./vigil.db"
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// WAL lets assessment lookups proceed while the audit trail is
	// being appended; busy_timeout covers the worker and a handler
	// hitting the file at the same moment.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite allows one writer at a time. Funnelling every statement
	// through a single connection avoids SQLITE_BUSY when concurrent
	// assessments land.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return db, nil
}
