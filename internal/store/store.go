// Package store persists the demographic index between sessions so the map
// server does not re-ingest the summary file on every start.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/segmap/internal/census"
)

// LoadRun records one index load: where the rows came from and how many
// blocks they produced.
type LoadRun struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	Blocks   int       `json:"blocks"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Store defines the persistence interface for the block index.
type Store interface {
	// SaveIndex replaces stored records with the given index and records
	// the load.
	SaveIndex(ctx context.Context, source string, idx census.Index) (*LoadRun, error)

	// LoadIndex returns the most recently saved index. An empty store
	// yields an empty index, not an error.
	LoadIndex(ctx context.Context) (census.Index, error)

	// ListLoads returns load history, newest first.
	ListLoads(ctx context.Context) ([]LoadRun, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite", "":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
