package journal

// Store is the persistent-record boundary the journal core writes through.
// An eventually-consistent replication layer may mutate the same record
// space out-of-band; the core only ever observes that through reads here.
//
// Implementations must make each mutation atomic for the affected record,
// which is the minimum contract the repair passes rely on when they
// interleave with foreground reads.
type Store interface {
	// Insert persists a new entry.
	Insert(e *Entry) error

	// Update rewrites an existing entry by ID.
	Update(e *Entry) error

	// Delete removes an entry by ID. Deleting an absent entry is an error.
	Delete(e *Entry) error

	// FindByDayKey returns every record sharing the given day key.
	// More than one result is a duplicate set awaiting merge.
	FindByDayKey(key string) ([]*Entry, error)

	// FetchAll returns every record, including ones with blank or
	// malformed day keys. Used by the repair pipeline and read-only
	// presentation layers.
	FetchAll() ([]*Entry, error)

	// MarkerDone reports whether a named one-time repair has completed.
	MarkerDone(name string) (bool, error)

	// SetMarkerDone records that a named one-time repair has completed.
	SetMarkerDone(name string) error

	// SnapshotTo writes a consistent copy of the whole store to path.
	SnapshotTo(path string) error

	// Close releases the underlying storage handle.
	Close() error
}
