// Package store persists extraction runs and their items. Two backends
// implement the same interface: SQLite for single-machine use and
// Postgres for shared deployments.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/leasingborsen/pricelist-cli/internal/config"
	"github.com/leasingborsen/pricelist-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status   model.RunStatus `json:"status,omitempty"`
	Document string          `json:"document,omitempty"`
	Limit    int             `json:"limit,omitempty"`
	Offset   int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for extraction runs.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, document string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, result *model.ExtractionResult) error
	FailRun(ctx context.Context, runID string, reason string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Items
	ListRunItems(ctx context.Context, runID string) ([]model.IdentifiedVariant, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// New creates a Store based on config.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		path := cfg.Path
		if path == "" {
			path = "pricelist.db"
		}
		return NewSQLite(path)
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, eris.New("store: postgres driver requires database_url")
		}
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
