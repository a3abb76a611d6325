package schedule

import (
	"time"

	"github.com/colonyops/tend/internal/core/carelog"
	"github.com/colonyops/tend/internal/core/treatment"
)

// Tracker caches the most recent application time per treatment label.
// It is a derived view of the care log kept for fast lookup; the log remains
// the source of truth and the tracker can always be rebuilt from it.
type Tracker map[string]time.Time

// LastApplied returns the most recent application time for a label.
func (t Tracker) LastApplied(label string) (time.Time, bool) {
	at, ok := t[label]
	return at, ok
}

// Record overwrites the entry for a label. Most recent wins; no history of
// prior applications is kept here (that is the care log's job).
func (t Tracker) Record(label string, at time.Time) {
	t[label] = at
}

// Merge folds another tracker in, keeping the later timestamp per label.
func (t Tracker) Merge(other Tracker) {
	for label, at := range other {
		if cur, ok := t[label]; !ok || at.After(cur) {
			t[label] = at
		}
	}
}

// Clone returns a shallow copy.
func (t Tracker) Clone() Tracker {
	out := make(Tracker, len(t))
	for label, at := range t {
		out[label] = at
	}
	return out
}

// Rebuild derives a tracker from the care log: the maximum AppliedAt per
// label, restricted to catalog treatments that declare an interval. Entries
// with unknown or untracked labels are ignored.
//
// The log append and the tracker write are not atomic, so a persisted tracker
// can lag the log after a failed write. Rebuilding on load and merging with
// the stored tracker makes a stale tracker entry harmless.
func Rebuild(entries []carelog.Entry, catalog treatment.Catalog) Tracker {
	tracker := make(Tracker)
	for _, e := range entries {
		tr, ok := catalog.Find(e.Label)
		if !ok || !tr.Tracked() {
			continue
		}
		if cur, ok := tracker[e.Label]; !ok || e.AppliedAt.After(cur) {
			tracker[e.Label] = e.AppliedAt
		}
	}
	return tracker
}
