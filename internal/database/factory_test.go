package database_test

import (
	"os"
	"path/filepath"
	"testing"

	"daybook/internal/config"
	"daybook/internal/database"
)

func configFor(typ, dataDir string) config.DatabaseConfig {
	return config.DatabaseConfig{Type: typ, DataDir: dataDir}
}

func TestNewStoreFromConfig(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		store, err := database.NewStoreFromConfig(configFor("memory", ""))
		if err != nil {
			t.Fatalf("NewStoreFromConfig() error = %v", err)
		}
		defer store.Close()

		// Schema must already be applied.
		if err := store.Insert(sampleEntry("e1", "2025-03-01")); err != nil {
			t.Errorf("Insert() on fresh store error = %v", err)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		dir := t.TempDir()
		store, err := database.NewStoreFromConfig(configFor("sqlite", dir))
		if err != nil {
			t.Fatalf("NewStoreFromConfig() error = %v", err)
		}
		defer store.Close()

		if _, err := os.Stat(filepath.Join(dir, "journal.db")); err != nil {
			t.Errorf("database file missing: %v", err)
		}
	})

	t.Run("sqlite requires data_dir", func(t *testing.T) {
		if _, err := database.NewStoreFromConfig(configFor("sqlite", "")); err == nil {
			t.Error("expected error for missing data_dir")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		if _, err := database.NewStoreFromConfig(configFor("cassandra", "")); err == nil {
			t.Error("expected error for unknown type")
		}
	})
}
