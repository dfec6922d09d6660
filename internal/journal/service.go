package journal

import "fmt"

// Service is the entry store boundary: create-or-fetch, edits, and deletion
// over day-keyed entries, enforcing one entry per day at the point of
// access. Construct one explicitly and pass it to callers; the storage
// handle is a constructor parameter so tests can use an in-memory backend.
type Service struct {
	store  Store
	thumbs Thumbnailer
	logger Logger
	idgen  IDGenerator
}

// NewService creates a Service with the provided dependencies.
func NewService(store Store, thumbs Thumbnailer, logger Logger, idgen IDGenerator) *Service {
	return &Service{
		store:  store,
		thumbs: thumbs,
		logger: logger,
		idgen:  idgen,
	}
}

// FindOrCreate returns the single entry for the given day, creating an
// empty one if none exists and collapsing duplicates if replication has
// raced in more than one.
//
// On a storage failure the returned entry is a best-effort in-memory record
// for the day, returned together with the error so the caller can render an
// empty day instead of crashing. The in-memory entry is never persisted
// silently.
//
// Two writers racing through the zero-match path can still each create a
// record; that transient duplicate set is repaired by the pipeline's
// unconditional duplicate pass, not prevented here.
func (s *Service) FindOrCreate(day CalendarDate) (*Entry, error) {
	key := day.String()

	matches, err := s.store.FindByDayKey(key)
	if err != nil {
		return s.newEntry(day), storageErr("find-or-create", err)
	}

	switch len(matches) {
	case 0:
		e := s.newEntry(day)
		if err := s.store.Insert(e); err != nil {
			return e, storageErr("find-or-create", err)
		}
		s.logger.Debug("entry created", "day", key)
		return e, nil
	case 1:
		return matches[0], nil
	default:
		return s.collapse(key, matches)
	}
}

// collapse merges a duplicate set, persists the survivor, and deletes the
// losers.
func (s *Service) collapse(key string, matches []*Entry) (*Entry, error) {
	survivor, losers, err := MergeDuplicates(matches)
	if err != nil {
		return nil, err
	}
	if err := s.store.Update(survivor); err != nil {
		return survivor, storageErr("merge", err)
	}
	for _, loser := range losers {
		if err := s.store.Delete(loser); err != nil {
			return survivor, storageErr("merge", err)
		}
	}
	s.logger.Info("duplicate entries merged", "day", key, "deleted", len(losers))
	return survivor, nil
}

// SetText stores text for the given day, creating the entry if needed.
func (s *Service) SetText(day CalendarDate, text string) (*Entry, error) {
	e, err := s.FindOrCreate(day)
	if err != nil {
		return e, err
	}
	e.Text = text
	if err := s.store.Update(e); err != nil {
		return e, storageErr("set-text", err)
	}
	return e, nil
}

// SetDrawing stores drawing bytes for the given day and regenerates both
// thumbnails from them. An empty drawing clears the drawing and its
// thumbnails: thumbnails are never kept for an entry without a drawing.
func (s *Service) SetDrawing(day CalendarDate, drawing []byte) (*Entry, error) {
	e, err := s.FindOrCreate(day)
	if err != nil {
		return e, err
	}

	if len(drawing) == 0 {
		e.Drawing = nil
		e.ClearThumbnails()
	} else {
		small, err := s.thumbs.Render(drawing, ThumbSizeSmall)
		if err != nil {
			return e, fmt.Errorf("rendering small thumbnail: %w", err)
		}
		medium, err := s.thumbs.Render(drawing, ThumbSizeMedium)
		if err != nil {
			return e, fmt.Errorf("rendering medium thumbnail: %w", err)
		}
		e.Drawing = drawing
		e.ThumbSmall = small
		e.ThumbMedium = medium
	}

	if err := s.store.Update(e); err != nil {
		return e, storageErr("set-drawing", err)
	}
	return e, nil
}

// DeleteAllForDay removes every record sharing the day's key. The first
// failed deletion aborts and is reported: silent partial deletion would
// leave a mixed state the caller cannot see.
func (s *Service) DeleteAllForDay(day CalendarDate) error {
	key := day.String()

	matches, err := s.store.FindByDayKey(key)
	if err != nil {
		return storageErr("delete-all", err)
	}
	for _, e := range matches {
		if err := s.store.Delete(e); err != nil {
			return storageErr("delete-all", err)
		}
	}
	if len(matches) > 0 {
		s.logger.Info("entries deleted", "day", key, "count", len(matches))
	}
	return nil
}

// FetchAll returns every stored entry. Used by read-only presentation
// layers and by the repair pipeline.
func (s *Service) FetchAll() ([]*Entry, error) {
	entries, err := s.store.FetchAll()
	if err != nil {
		return nil, storageErr("fetch-all", err)
	}
	return entries, nil
}

// newEntry builds a fresh, empty entry for the day. The legacy timestamp
// is the day's fixed reference instant, never the wall clock.
func (s *Service) newEntry(day CalendarDate) *Entry {
	return &Entry{
		ID:            s.idgen.New(),
		DayKey:        day.String(),
		LegacyTime:    day.ReferenceTime(),
		SchemaVersion: CurrentSchemaVersion,
	}
}
