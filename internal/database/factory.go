package database

import (
	"fmt"
	"os"
	"path/filepath"

	"daybook/internal/config"
	"daybook/internal/database/migrations"
	"daybook/internal/journal"
)

// NewStoreFromConfig creates a Store implementation based on the database
// config type and brings its schema to the latest version.
func NewStoreFromConfig(cfg config.DatabaseConfig) (journal.Store, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return newMigratedStore(filepath.Join(cfg.DataDir, "journal.db"))
	case "memory":
		return newMigratedStore(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}

func newMigratedStore(path string) (*SQLiteStore, error) {
	store, err := NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(store.DB()); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrating database schema: %w", err)
	}
	return store, nil
}
