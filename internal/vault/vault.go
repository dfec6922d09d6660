// Package vault provides snapshot storage backends for journal exports.
package vault

import "io"

// Vault stores named journal snapshots. It is only ever touched by explicit
// export and restore commands; the journal core never reaches it.
// All operations stream through io.Reader/io.Writer so snapshots never need
// to be held in memory whole.
type Vault interface {
	// PutSnapshot stores a snapshot under the given name.
	// size is the number of bytes that will be read from r.
	// Storing the same name twice overwrites the previous snapshot.
	PutSnapshot(name string, r io.Reader, size int64) error

	// GetSnapshot retrieves a snapshot by name and writes it to w.
	GetSnapshot(name string, w io.Writer) error

	// ListSnapshots returns the stored snapshot names, sorted ascending.
	// Snapshot names embed a UTC timestamp, so sorted order is age order.
	ListSnapshots() ([]string, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}
