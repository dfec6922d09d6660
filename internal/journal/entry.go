package journal

import "time"

// CurrentSchemaVersion is stamped on new and repaired entries.
// Version 1 records predate the day-key identity; version 2 records carry
// a canonical day key and the v2 thumbnail format.
const CurrentSchemaVersion = 2

// Entry is the persisted record for one calendar day.
//
// DayKey is the identity: intended unique per day, but uniqueness is
// enforced by the service and the repair pipeline rather than by a storage
// constraint, because the store must tolerate legacy records with blank or
// malformed keys mid-repair. ID is a stable record identifier assigned at
// creation and never rewritten; it doubles as the deterministic tie-break
// when duplicate records are merged.
type Entry struct {
	ID            string
	DayKey        string
	Text          string
	Drawing       []byte
	ThumbSmall    []byte
	ThumbMedium   []byte
	LegacyTime    time.Time
	SchemaVersion int
}

// HasText reports whether the entry carries any text.
func (e *Entry) HasText() bool { return e.Text != "" }

// HasDrawing reports whether the entry carries drawing data.
func (e *Entry) HasDrawing() bool { return len(e.Drawing) > 0 }

// IsEmpty reports whether the entry carries no user content at all.
// Thumbnails are derived data and do not count.
func (e *Entry) IsEmpty() bool { return !e.HasText() && !e.HasDrawing() }

// ClearThumbnails drops both derived raster caches.
// Invariant: an entry without a drawing must not carry thumbnails.
func (e *Entry) ClearThumbnails() {
	e.ThumbSmall = nil
	e.ThumbMedium = nil
}
