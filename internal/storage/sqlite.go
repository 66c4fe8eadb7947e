package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite keeps the ledger in a local database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and its tables.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// One writer; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating documents table: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS import_logs (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at     INTEGER NOT NULL,
		source         TEXT NOT NULL,
		status         TEXT NOT NULL,
		types_received INTEGER NOT NULL DEFAULT 0,
		logs_received  INTEGER NOT NULL DEFAULT 0,
		duration_ms    INTEGER,
		error_message  TEXT
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating import_logs table: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Load(ctx context.Context) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM documents WHERE key = ?`, DocumentKey,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return []byte(value), nil
}

func (s *SQLite) Save(ctx context.Context, doc []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO documents (key, value, updated_at) VALUES (?, ?, ?)`,
		DocumentKey, string(doc), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

func (s *SQLite) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE key = ?`, DocumentKey); err != nil {
		return fmt.Errorf("clearing document: %w", err)
	}
	return nil
}

// InsertImportLog creates a new import log entry and returns its ID.
func (s *SQLite) InsertImportLog(ctx context.Context, log ImportLog) (int64, error) {
	createdAt := log.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO import_logs (created_at, source, status, types_received, logs_received, duration_ms, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		createdAt.UnixMilli(), log.Source, log.Status, log.TypesReceived, log.LogsReceived,
		log.DurationMs, log.ErrorMessage,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting import log: %w", err)
	}
	return res.LastInsertId()
}

// QueryImportLogs returns the most recent import logs, newest first.
func (s *SQLite) QueryImportLogs(ctx context.Context, limit int) ([]ImportLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, source, status, types_received, logs_received, duration_ms, error_message
		 FROM import_logs
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		importLogLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	defer rows.Close()

	var result []ImportLog
	for rows.Next() {
		var (
			l         ImportLog
			createdAt int64
			duration  sql.NullInt64
			errMsg    sql.NullString
		)
		if err := rows.Scan(&l.ID, &createdAt, &l.Source, &l.Status,
			&l.TypesReceived, &l.LogsReceived, &duration, &errMsg); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		l.CreatedAt = time.UnixMilli(createdAt).UTC()
		if duration.Valid {
			d := int(duration.Int64)
			l.DurationMs = &d
		}
		if errMsg.Valid {
			l.ErrorMessage = &errMsg.String
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
