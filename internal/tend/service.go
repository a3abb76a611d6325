// Package tend orchestrates the care log, recurrence tracker, and countdown
// engine on top of a carelog.Store.
package tend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/tend/internal/core/carelog"
	"github.com/colonyops/tend/internal/core/schedule"
	"github.com/colonyops/tend/internal/core/treatment"
)

// TreatmentStatus pairs a catalog treatment with its derived countdown.
type TreatmentStatus struct {
	Treatment   treatment.Treatment
	Status      schedule.Status
	HasStatus   bool // false when untracked or never applied
	LastApplied time.Time
	HasLast     bool
}

// CareService owns the in-memory care state and keeps it synchronized with
// the persistence store. All mutating operations update memory first and
// persist after; a store failure leaves the optimistic in-memory state in
// place so the UI stays responsive on a flaky backend.
type CareService struct {
	store   carelog.Store
	catalog treatment.Catalog
	log     zerolog.Logger
	now     func() time.Time

	mu      sync.RWMutex
	entries []carelog.Entry // newest first
	tracker schedule.Tracker
}

// NewCareService creates a CareService. Call Load before first use.
func NewCareService(store carelog.Store, catalog treatment.Catalog, logger zerolog.Logger) *CareService {
	return &CareService{
		store:   store,
		catalog: catalog,
		log:     logger,
		now:     time.Now,
		tracker: schedule.Tracker{},
	}
}

// Load reads persisted state into memory. Read failures are logged and leave
// empty state; startup never fails because the store is unreadable.
//
// The tracker is reconciled against the log on load: the persisted mapping is
// merged with a per-label maximum rebuilt from the log, so a tracker write
// that was lost or completed out of order cannot shadow a newer application.
func (s *CareService) Load(ctx context.Context) {
	entries, err := s.store.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("load care log, starting empty")
		entries = nil
	}

	stored, err := s.store.LoadTracker(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("load tracker, rebuilding from log")
		stored = nil
	}

	tracker := schedule.Rebuild(entries, s.catalog)
	tracker.Merge(stored)

	s.mu.Lock()
	s.entries = entries
	s.tracker = tracker
	s.mu.Unlock()
}

// Apply records an application of the labeled treatment at the current
// moment. The entry is prepended to the log; the tracker entry is overwritten
// only when the label matches a catalog treatment that declares an interval.
//
// A label with no catalog match is not an error: the entry is still logged,
// it just never produces a countdown. A persist failure is logged and
// returned, with the optimistic in-memory state kept.
func (s *CareService) Apply(ctx context.Context, label string) (carelog.Entry, error) {
	now := s.now().Truncate(time.Second)

	entry := carelog.Entry{Label: label, AppliedAt: now}
	matched, found := s.catalog.Find(label)
	if found {
		entry.Day = matched.Day
	}
	tracked := found && matched.Tracked()

	// Persist the log entry first; the tracker write follows. The two are
	// independent, and the load-time reconciliation tolerates a tracker
	// that lags the log.
	id, appendErr := s.store.Append(ctx, entry)
	if appendErr != nil {
		s.log.Error().Err(appendErr).Str("label", label).Msg("persist care log entry")
	} else {
		entry.ID = id
	}

	var trackerErr error
	if tracked {
		trackerErr = s.store.SetLastApplied(ctx, label, now)
		if trackerErr != nil {
			s.log.Error().Err(trackerErr).Str("label", label).Msg("persist tracker entry")
		}
	}

	s.mu.Lock()
	s.entries = append([]carelog.Entry{entry}, s.entries...)
	if tracked {
		s.tracker.Record(label, now)
	}
	s.mu.Unlock()

	if appendErr != nil {
		return entry, fmt.Errorf("record application: %w", appendErr)
	}
	if trackerErr != nil {
		return entry, fmt.Errorf("record application: %w", trackerErr)
	}
	return entry, nil
}

// Reset clears the care log and tracker, in the store and in memory. The
// caller is responsible for confirming the destructive action first. Memory
// is cleared even when the store reports a partial failure; the error is
// returned for the caller to surface.
func (s *CareService) Reset(ctx context.Context) error {
	err := s.store.Clear(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("clear store")
	}

	s.mu.Lock()
	s.entries = nil
	s.tracker = schedule.Tracker{}
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("reset care log: %w", err)
	}
	return nil
}

// Entries returns a copy of the care log, newest first.
func (s *CareService) Entries() []carelog.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]carelog.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Tracker returns a copy of the current recurrence tracker.
func (s *CareService) Tracker() schedule.Tracker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.tracker.Clone()
}

// Catalog returns the treatment catalog.
func (s *CareService) Catalog() treatment.Catalog {
	return s.catalog
}

// Statuses derives the countdown for every catalog treatment as of the given
// day, in catalog order. Pure with respect to state: safe to call on every
// render.
func (s *CareService) Statuses(today time.Time) []TreatmentStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make([]TreatmentStatus, 0, len(s.catalog))
	for _, t := range s.catalog {
		ts := TreatmentStatus{Treatment: t}
		ts.Status, ts.HasStatus = schedule.Compute(t, s.tracker, today)
		ts.LastApplied, ts.HasLast = s.tracker.LastApplied(t.Label)
		statuses = append(statuses, ts)
	}
	return statuses
}
