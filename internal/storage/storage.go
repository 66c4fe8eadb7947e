// Package storage persists the ledger document and the import audit trail.
// The ledger is one JSON document under a fixed key; backends store it
// opaquely and never look inside.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/claude/reptracker/internal/config"
)

// DocumentKey is the key the ledger document is stored under.
const DocumentKey = "exercise-tracker-state"

// ErrNotFound is returned by Backend.Load when no document has been saved.
var ErrNotFound = errors.New("storage: document not found")

// Backend reads and writes the ledger document. Save overwrites the previous
// document in full.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, doc []byte) error
	Clear(ctx context.Context) error
	Close() error
}

// ImportLogger records restore attempts.
type ImportLogger interface {
	InsertImportLog(ctx context.Context, log ImportLog) (int64, error)
	QueryImportLogs(ctx context.Context, limit int) ([]ImportLog, error)
}

// Repository is what every concrete backend provides.
type Repository interface {
	Backend
	ImportLogger
}

// Open selects and opens the backend named by cfg.Driver. The postgres
// backend has its migrations applied first.
func Open(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (Repository, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		log.Info("opening sqlite store", "path", cfg.Path)
		return OpenSQLite(cfg.Path)
	case config.DriverPostgres:
		dsn := cfg.Postgres.DSN()
		log.Info("running migrations")
		if err := RunMigrations(dsn); err != nil {
			return nil, err
		}
		log.Info("connecting to postgres", "host", cfg.Postgres.Host, "db", cfg.Postgres.Name)
		return OpenPostgres(ctx, dsn)
	case config.DriverMemory:
		log.Warn("using in-memory store; nothing will be persisted")
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
