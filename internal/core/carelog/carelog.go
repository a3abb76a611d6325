// Package carelog defines the append-only care log domain model and its
// persistence contract.
package carelog

import (
	"context"
	"time"
)

// Entry records one application of a treatment.
type Entry struct {
	// ID is an opaque identifier assigned by the store on write. Empty for
	// stores that identify entries by position.
	ID string `json:"id,omitempty"`
	// Label references a treatment by label. The log does not enforce that
	// the label exists in the catalog; entries with unknown labels are kept
	// and simply never match a countdown.
	Label string `json:"label"`
	// Day is a denormalized copy of the treatment's display day at the time
	// of application.
	Day string `json:"day"`
	// AppliedAt is the local wall-clock moment of the application, second
	// precision.
	AppliedAt time.Time `json:"applied_at"`
}

// Store is the persistence boundary for the care log and the recurrence
// tracker. Two implementations exist: a device-local JSON file store and a
// shared SQLite store.
//
// The log append and the tracker update are independent operations; callers
// issue them log-then-tracker and must tolerate a tracker that lags the log
// (see schedule.Rebuild).
type Store interface {
	// List returns all entries, newest first.
	List(ctx context.Context) ([]Entry, error)
	// Append persists a new entry and returns the assigned id, if any.
	Append(ctx context.Context, e Entry) (string, error)
	// LoadTracker returns the label to last-applied mapping. A missing label
	// means the treatment has never been applied.
	LoadTracker(ctx context.Context) (map[string]time.Time, error)
	// SetLastApplied upserts a single tracker entry without rewriting the
	// rest of the mapping.
	SetLastApplied(ctx context.Context, label string, at time.Time) error
	// Clear removes all log entries and all tracker state.
	Clear(ctx context.Context) error
}
