package journal

// markerThumbnailsV2 gates the one-time thumbnail refresh for the v2
// thumbnail format. Unlike duplicate collapse, which must run on every
// launch, format migrations run at most once per install.
const markerThumbnailsV2 = "thumbnails-v2"

// PassReport describes the outcome of one repair pass.
type PassReport struct {
	Pass     string
	Repaired int
	Err      error
}

// Pipeline is the ordered set of idempotent startup repairs for data drift:
// missing identity keys, malformed keys, duplicate records, empty records,
// and stale derived thumbnails. Every pass is a pure function of current
// stored state — an interrupted run re-scans on the next launch and reaches
// the same fixed point. A failed pass is reported and does not stop the
// passes after it.
type Pipeline struct {
	store  Store
	thumbs Thumbnailer
	logger Logger
}

// NewPipeline creates a Pipeline with the provided dependencies.
func NewPipeline(store Store, thumbs Thumbnailer, logger Logger) *Pipeline {
	return &Pipeline{store: store, thumbs: thumbs, logger: logger}
}

// Run executes every pass in order and returns one report per pass.
func (p *Pipeline) Run() []PassReport {
	passes := []struct {
		name string
		fn   func() (int, error)
	}{
		{"backfill-day-keys", p.backfillDayKeys},
		{"validate-day-keys", p.validateDayKeys},
		{"collapse-duplicates", p.collapseDuplicates},
		{"drop-empty-entries", p.dropEmptyEntries},
		{"refresh-thumbnails", p.refreshThumbnails},
	}

	reports := make([]PassReport, 0, len(passes))
	for _, pass := range passes {
		repaired, err := pass.fn()
		if err != nil {
			p.logger.Error("repair pass failed", "pass", pass.name, "error", err)
		} else if repaired > 0 {
			p.logger.Info("repair pass finished", "pass", pass.name, "repaired", repaired)
		}
		reports = append(reports, PassReport{Pass: pass.name, Repaired: repaired, Err: err})
	}
	return reports
}

// backfillDayKeys derives a day key for every record that has none.
//
// Legacy timestamps were written as noon UTC of the intended day, so the
// stored instant is projected in UTC: regeneration then lands on the same
// day regardless of the device's current timezone.
func (p *Pipeline) backfillDayKeys() (int, error) {
	entries, err := p.store.FetchAll()
	if err != nil {
		return 0, storageErr("backfill-day-keys", err)
	}

	repaired := 0
	for _, e := range entries {
		if e.DayKey != "" {
			continue
		}
		p.rekey(e)
		if err := p.store.Update(e); err != nil {
			return repaired, storageErr("backfill-day-keys", err)
		}
		repaired++
	}
	return repaired, nil
}

// validateDayKeys regenerates any day key that does not parse as a
// canonical calendar date.
func (p *Pipeline) validateDayKeys() (int, error) {
	entries, err := p.store.FetchAll()
	if err != nil {
		return 0, storageErr("validate-day-keys", err)
	}

	repaired := 0
	for _, e := range entries {
		if e.DayKey == "" {
			continue
		}
		if _, err := ParseCalendarDate(e.DayKey); err == nil {
			continue
		}
		p.logger.Warn("regenerating malformed day key", "id", e.ID, "key", e.DayKey)
		p.rekey(e)
		if err := p.store.Update(e); err != nil {
			return repaired, storageErr("validate-day-keys", err)
		}
		repaired++
	}
	return repaired, nil
}

// collapseDuplicates merges every group of records sharing a day key down
// to one. It runs unconditionally on every launch — replication can
// reintroduce duplicates asynchronously at any time, so this pass is never
// gated by a completion marker. Returns the number of records deleted.
func (p *Pipeline) collapseDuplicates() (int, error) {
	entries, err := p.store.FetchAll()
	if err != nil {
		return 0, storageErr("collapse-duplicates", err)
	}

	byDay := make(map[string][]*Entry)
	for _, e := range entries {
		if e.DayKey == "" {
			// Left for the backfill pass on a later launch.
			continue
		}
		byDay[e.DayKey] = append(byDay[e.DayKey], e)
	}

	deleted := 0
	for key, group := range byDay {
		if len(group) < 2 {
			continue
		}
		survivor, losers, err := MergeDuplicates(group)
		if err != nil {
			return deleted, err
		}
		if err := p.store.Update(survivor); err != nil {
			return deleted, storageErr("collapse-duplicates", err)
		}
		for _, loser := range losers {
			if err := p.store.Delete(loser); err != nil {
				return deleted, storageErr("collapse-duplicates", err)
			}
			deleted++
		}
		p.logger.Info("duplicate entries merged", "day", key, "deleted", len(losers))
	}
	return deleted, nil
}

// dropEmptyEntries deletes records with no text and no drawing. They carry
// no user value and only consume synchronized storage.
func (p *Pipeline) dropEmptyEntries() (int, error) {
	entries, err := p.store.FetchAll()
	if err != nil {
		return 0, storageErr("drop-empty-entries", err)
	}

	deleted := 0
	for _, e := range entries {
		if !e.IsEmpty() {
			continue
		}
		if err := p.store.Delete(e); err != nil {
			return deleted, storageErr("drop-empty-entries", err)
		}
		deleted++
	}
	return deleted, nil
}

// refreshThumbnails regenerates thumbnails for the current format, once per
// install. Records whose drawing bytes fail to render are skipped with a
// warning; everything else is brought to the v2 format and the marker is
// set so the pass never runs again.
func (p *Pipeline) refreshThumbnails() (int, error) {
	done, err := p.store.MarkerDone(markerThumbnailsV2)
	if err != nil {
		return 0, storageErr("refresh-thumbnails", err)
	}
	if done {
		return 0, nil
	}

	entries, err := p.store.FetchAll()
	if err != nil {
		return 0, storageErr("refresh-thumbnails", err)
	}

	repaired := 0
	for _, e := range entries {
		if !e.HasDrawing() {
			if len(e.ThumbSmall) == 0 && len(e.ThumbMedium) == 0 {
				continue
			}
			e.ClearThumbnails()
		} else {
			small, rerr := p.thumbs.Render(e.Drawing, ThumbSizeSmall)
			if rerr != nil {
				p.logger.Warn("skipping unrenderable drawing", "id", e.ID, "error", rerr)
				continue
			}
			medium, rerr := p.thumbs.Render(e.Drawing, ThumbSizeMedium)
			if rerr != nil {
				p.logger.Warn("skipping unrenderable drawing", "id", e.ID, "error", rerr)
				continue
			}
			e.ThumbSmall = small
			e.ThumbMedium = medium
		}
		if err := p.store.Update(e); err != nil {
			return repaired, storageErr("refresh-thumbnails", err)
		}
		repaired++
	}

	if err := p.store.SetMarkerDone(markerThumbnailsV2); err != nil {
		return repaired, storageErr("refresh-thumbnails", err)
	}
	return repaired, nil
}

// rekey rewrites an entry's day key from its legacy timestamp and stamps
// the current schema version.
func (p *Pipeline) rekey(e *Entry) {
	day := CalendarDateOf(e.LegacyTime.UTC())
	e.DayKey = day.String()
	e.LegacyTime = day.ReferenceTime()
	e.SchemaVersion = CurrentSchemaVersion
}
