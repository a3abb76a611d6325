// Package schedule derives per-treatment countdown status from application
// history.
package schedule

import (
	"fmt"
	"math"
	"time"

	"github.com/colonyops/tend/internal/core/treatment"
)

// Status is the user-facing countdown for a tracked treatment.
type Status struct {
	// Overdue is true once the due date has been reached or passed.
	Overdue bool
	// Days is the number of days until the next application is due.
	// Meaningful only when Overdue is false, and always positive.
	Days int
}

// Text returns the display string for the status.
func (s Status) Text() string {
	if s.Overdue {
		return "Deadline Over"
	}
	return fmt.Sprintf("Next Apply in %d days", s.Days)
}

// Compute derives the countdown for a treatment. The second return is false
// when no countdown applies: the treatment declares no interval, or it has
// never been applied.
//
// Both the last-applied time and today are truncated to local midnight before
// comparison, so the result changes at most once per calendar day. The due
// date is calendar-day addition (AddDate), not 24h multiples, so month and
// year rollover behave like a wall calendar. A due date of today or earlier
// is Overdue; "0 days left" is never displayed.
func Compute(t treatment.Treatment, tracker Tracker, today time.Time) (Status, bool) {
	if !t.Tracked() {
		return Status{}, false
	}

	last, ok := tracker.LastApplied(t.Label)
	if !ok {
		return Status{}, false
	}

	next := Midnight(last).AddDate(0, 0, t.IntervalDays)

	// Exact integer once both sides are truncated; the ceil only guards
	// residual fractional hours across DST transitions.
	days := int(math.Ceil(next.Sub(Midnight(today)).Hours() / 24))
	if days <= 0 {
		return Status{Overdue: true}, true
	}

	return Status{Days: days}, true
}

// Midnight truncates a time to 00:00 local wall-clock on the same calendar
// day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
