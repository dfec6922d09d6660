package journal

import (
	"errors"
	"fmt"
)

// ErrMalformedDate indicates a day-key string that is not a valid
// yyyy-MM-dd calendar date.
var ErrMalformedDate = errors.New("malformed date key")

// ErrNotDuplicateSet indicates that merge was invoked with fewer than two
// records. This is a programmer error; correct callers never hit it.
var ErrNotDuplicateSet = errors.New("merge requires at least two entries")

// StorageError wraps a failure from the underlying record store, tagged
// with the operation that failed. The service layer never swallows these;
// higher layers (the repair pipeline) may log and continue.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
