package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	// KeyCandidates holds the candidate registry blob.
	KeyCandidates = "candidates"
	// KeyInterview holds the interview session snapshot.
	KeyInterview = "interview_session"
)

const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// ErrNotFound is returned by Get when nothing was stored under the key.
var ErrNotFound = errors.New("blob not found")

// Store persists opaque blobs under fixed keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
	Close() error
}

// Config selects and configures a Store driver.
type Config struct {
	Driver      string
	Dir         string
	DatabaseURL string
	Migrate     bool
}

// New builds the store described by cfg. An empty driver means the file store.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", DriverFile:
		store, err := NewFileStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		logger.Debug("using file storage", zap.String("dir", store.Dir()))
		return store, nil
	case DriverMemory:
		logger.Debug("using in-memory storage")
		return NewMemoryStore(), nil
	case DriverPostgres:
		db, err := Connect(ctx, cfg.DatabaseURL, DefaultOptions())
		if err != nil {
			return nil, err
		}
		if cfg.Migrate {
			if err := RunMigrations(ctx, db); err != nil {
				db.Close()
				return nil, fmt.Errorf("running migrations: %w", err)
			}
		}
		logger.Debug("using postgres storage")
		return &PostgresStore{DB: db}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
