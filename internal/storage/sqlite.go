package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DatabaseFile is the sqlite file name inside the data directory.
const DatabaseFile = "verse-tui.db"

const createKV = `CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

const upsertKV = `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`

// SQLite is a Store backed by a single kv table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database in dataDir.
func OpenSQLite(dataDir string) (*SQLite, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, wrap("create data dir", err)
	}
	return openSQLiteDSN(filepath.Join(dataDir, DatabaseFile))
}

func openSQLiteDSN(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, wrap("open", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createKV); err != nil {
		db.Close()
		return nil, wrap("create schema", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Read(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrap("read "+key, err)
	}
	return value, true, nil
}

func (s *SQLite) Write(key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.Exec(upsertKV, key, value, now); err != nil {
		return wrap("write "+key, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
