package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/rmx/internal/shared"
)

// Backend bundles an open [Store] with the resources to release on shutdown.
type Backend struct {
	Store Store
	db    *sql.DB
}

// Close releases the backend's database connection, if any.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

// OpenBackend builds the [Store] selected by cfg.Backend.
func OpenBackend(cfg shared.StorageConfig) (*Backend, error) {
	switch cfg.Backend {
	case "memory":
		return &Backend{Store: NewMemoryStore()}, nil
	case "sqlite", "":
		db, err := shared.OpenStorageDatabase(cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
		}
		return &Backend{Store: NewSQLiteStore(db), db: db}, nil
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", shared.ErrInvalidConfig, cfg.Backend)
	}
}
