package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"daybook/internal/journal"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements the journal.Store interface using SQLite.
//
// Statements run one record at a time and each statement is atomic, which
// is the contract the repair passes rely on while the foreground may be
// reading the same records. There is no cross-writer locking: a widget or
// replication process writing the same file concurrently can still race
// create-or-fetch, and the duplicate pass repairs that after the fact.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLite-backed store.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// NewSQLiteStoreFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteStoreFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenConnection opens and configures a SQLite connection with appropriate
// PRAGMAs. Exported for tools and tests that need a properly configured
// connection. path can be a file path or ":memory:".
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Foreign keys default to OFF in SQLite for backward compatibility.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// The main app, the widget process, and replication may hold the file
	// at the same time; wait for locks instead of failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// DB exposes the underlying connection for migrations.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

const entryColumns = "id, day_key, text, drawing, thumb_small, thumb_medium, legacy_time, schema_version"

// Insert persists a new entry.
func (s *SQLiteStore) Insert(e *journal.Entry) error {
	query := `INSERT INTO entries (` + entryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(context.Background(), query,
		e.ID, e.DayKey, e.Text, e.Drawing, e.ThumbSmall, e.ThumbMedium, e.LegacyTime, e.SchemaVersion)
	if err != nil {
		return fmt.Errorf("inserting entry: %w", err)
	}
	return nil
}

// Update rewrites an existing entry by ID. Exactly one row must be affected.
func (s *SQLiteStore) Update(e *journal.Entry) error {
	query := `UPDATE entries
		SET day_key = ?, text = ?, drawing = ?, thumb_small = ?, thumb_medium = ?, legacy_time = ?, schema_version = ?
		WHERE id = ?`
	res, err := s.db.ExecContext(context.Background(), query,
		e.DayKey, e.Text, e.Drawing, e.ThumbSmall, e.ThumbMedium, e.LegacyTime, e.SchemaVersion, e.ID)
	if err != nil {
		return fmt.Errorf("updating entry: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("updating entry %s: %d rows affected", e.ID, ra)
	}
	return nil
}

// Delete removes an entry by ID. Exactly one row must be affected.
func (s *SQLiteStore) Delete(e *journal.Entry) error {
	res, err := s.db.ExecContext(context.Background(), `DELETE FROM entries WHERE id = ?`, e.ID)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("deleting entry %s: %d rows affected", e.ID, ra)
	}
	return nil
}

// FindByDayKey returns every record sharing the given day key, ordered by
// ID for deterministic processing.
func (s *SQLiteStore) FindByDayKey(key string) ([]*journal.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE day_key = ? ORDER BY id`
	rows, err := s.db.QueryContext(context.Background(), query, key)
	if err != nil {
		return nil, fmt.Errorf("querying entries by day key: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// FetchAll returns every record, including ones with blank or malformed
// day keys.
func (s *SQLiteStore) FetchAll() ([]*journal.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries ORDER BY day_key, id`
	rows, err := s.db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("querying all entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// MarkerDone reports whether a named one-time repair has completed.
func (s *SQLiteStore) MarkerDone(name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM markers WHERE name = ?`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying marker: %w", err)
	}
	return n > 0, nil
}

// SetMarkerDone records that a named one-time repair has completed.
// Setting an already-set marker is a no-op.
func (s *SQLiteStore) SetMarkerDone(name string) error {
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO markers (name, completed_at) VALUES (?, ?)
		 ON CONFLICT(name) DO NOTHING`, name, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("setting marker: %w", err)
	}
	return nil
}

// SnapshotTo writes a consistent copy of the database to path.
// VACUUM INTO does not accept bind parameters, so the path is quoted inline.
func (s *SQLiteStore) SnapshotTo(path string) error {
	quoted := strings.ReplaceAll(path, "'", "''")
	if _, err := s.db.ExecContext(context.Background(), fmt.Sprintf("VACUUM INTO '%s'", quoted)); err != nil {
		return fmt.Errorf("snapshotting database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanEntries(rows *sql.Rows) ([]*journal.Entry, error) {
	var result []*journal.Entry
	for rows.Next() {
		e := &journal.Entry{}
		if err := rows.Scan(&e.ID, &e.DayKey, &e.Text, &e.Drawing,
			&e.ThumbSmall, &e.ThumbMedium, &e.LegacyTime, &e.SchemaVersion); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return result, nil
}
