// Package treatment defines the fixed catalog of recurring garden treatments.
package treatment

import "fmt"

// Treatment is a single recurring care task in the catalog.
type Treatment struct {
	// Label uniquely identifies the treatment and joins it to care log entries.
	Label string `yaml:"label" json:"label"`
	// Day is the display day for the treatment. Cosmetic only; it plays no
	// part in scheduling math.
	Day string `yaml:"day" json:"day"`
	// IntervalDays is the recurrence interval in calendar days.
	// Zero means the treatment has no recurrence tracking.
	IntervalDays int `yaml:"every_days" json:"every_days,omitempty"`
}

// Tracked reports whether the treatment participates in recurrence tracking.
func (t Treatment) Tracked() bool {
	return t.IntervalDays > 0
}

// Catalog is an ordered set of treatments. It is fixed for the lifetime of
// the process; entries are never mutated after load.
type Catalog []Treatment

// Find returns the treatment with the given label.
func (c Catalog) Find(label string) (Treatment, bool) {
	for _, t := range c {
		if t.Label == label {
			return t, true
		}
	}
	return Treatment{}, false
}

// Labels returns all labels in catalog order.
func (c Catalog) Labels() []string {
	labels := make([]string, 0, len(c))
	for _, t := range c {
		labels = append(labels, t.Label)
	}
	return labels
}

// Validate checks catalog invariants: non-empty unique labels and
// non-negative intervals.
func (c Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c))
	for i, t := range c {
		if t.Label == "" {
			return fmt.Errorf("treatment %d: label is required", i)
		}
		if _, ok := seen[t.Label]; ok {
			return fmt.Errorf("duplicate treatment label %q", t.Label)
		}
		seen[t.Label] = struct{}{}

		if t.IntervalDays < 0 {
			return fmt.Errorf("treatment %q: every_days must not be negative, got %d", t.Label, t.IntervalDays)
		}
	}
	return nil
}
