package journal

import "sort"

// textConflictSeparator joins divergent text from merged duplicates so the
// user can see where each piece came from. Divergent text is never dropped.
const textConflictSeparator = "\n\n---\n\n"

// ContentScore ranks an entry for survivor selection when duplicates are
// merged. A drawing is the primary artifact and always outranks text alone;
// text weight grows with length but is capped so one very long duplicate
// cannot monopolize the ranking; thumbnails are a minor tiebreaker since
// they are regenerable.
func ContentScore(e *Entry) int {
	score := 0
	if e.HasDrawing() {
		score += 100
	}
	if e.HasText() {
		n := len(e.Text)
		if n > 50 {
			n = 50
		}
		score += 50 + n
	}
	if len(e.ThumbSmall) > 0 {
		score += 10
	}
	if len(e.ThumbMedium) > 0 {
		score += 10
	}
	return score
}

// MergeDuplicates collapses a duplicate set (two or more records sharing a
// day key) into one surviving entry plus the losers to delete.
//
// Entries are ordered by content score descending, ties broken by record ID
// ascending. Record IDs are assigned once at creation and never rewritten,
// so the ordering — and therefore the survivor choice and the text
// concatenation order — is deterministic across devices and repeated runs.
//
// The survivor is mutated in place: it adopts a loser's text when it has
// none, concatenates divergent text behind a separator, and adopts the
// first loser drawing (with its thumbnails verbatim) when it has no drawing
// of its own. Thumbnail regeneration is a separate concern.
func MergeDuplicates(entries []*Entry) (survivor *Entry, losers []*Entry, err error) {
	if len(entries) < 2 {
		return nil, nil, ErrNotDuplicateSet
	}

	ordered := make([]*Entry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		si, sj := ContentScore(ordered[i]), ContentScore(ordered[j])
		if si != sj {
			return si > sj
		}
		return ordered[i].ID < ordered[j].ID
	})

	survivor = ordered[0]
	losers = ordered[1:]

	for _, loser := range losers {
		if loser.HasText() {
			switch {
			case !survivor.HasText():
				survivor.Text = loser.Text
			case survivor.Text != loser.Text:
				survivor.Text = survivor.Text + textConflictSeparator + loser.Text
			}
		}
		if !survivor.HasDrawing() && loser.HasDrawing() {
			survivor.Drawing = loser.Drawing
			survivor.ThumbSmall = loser.ThumbSmall
			survivor.ThumbMedium = loser.ThumbMedium
		}
	}

	return survivor, losers, nil
}
