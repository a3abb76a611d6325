// Package jsonfile implements carelog.Store using JSON files for
// device-local persistence.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/colonyops/tend/internal/core/carelog"
)

// File names under the data directory.
const (
	logFileName     = "carelog.json"
	trackerFileName = "tracker.json"
)

// logFile is the root JSON structure of the care log file.
type logFile struct {
	Entries []carelog.Entry `json:"entries"`
}

// trackerFile is the root JSON structure of the tracker file.
type trackerFile struct {
	LastApplied map[string]time.Time `json:"last_applied"`
}

// CareLogStore implements carelog.Store with two JSON files: the flat
// application log and the label to last-applied mapping. Data never leaves
// the device, so no coordination beyond a process-local mutex is needed.
type CareLogStore struct {
	logPath     string
	trackerPath string
	mu          sync.RWMutex
}

var _ carelog.Store = (*CareLogStore)(nil)

// NewCareLogStore creates a JSON file store rooted at the given data
// directory.
func NewCareLogStore(dataDir string) *CareLogStore {
	return &CareLogStore{
		logPath:     filepath.Join(dataDir, logFileName),
		trackerPath: filepath.Join(dataDir, trackerFileName),
	}
}

// List returns all entries, newest first. Order is by construction: Append
// prepends, so no sort happens here.
func (s *CareLogStore) List(ctx context.Context) ([]carelog.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadLog().Entries, nil
}

// Append prepends a new entry to the log. The returned id is always empty;
// entries in this store are identified by position.
func (s *CareLogStore) Append(ctx context.Context, e carelog.Entry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file := s.loadLog()
	file.Entries = append([]carelog.Entry{e}, file.Entries...)

	if err := save(s.logPath, file); err != nil {
		return "", err
	}
	return "", nil
}

// LoadTracker returns the persisted label to last-applied mapping.
func (s *CareLogStore) LoadTracker(ctx context.Context) (map[string]time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file := s.loadTracker()
	if file.LastApplied == nil {
		file.LastApplied = map[string]time.Time{}
	}
	return file.LastApplied, nil
}

// SetLastApplied upserts a single tracker entry.
func (s *CareLogStore) SetLastApplied(ctx context.Context, label string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file := s.loadTracker()
	if file.LastApplied == nil {
		file.LastApplied = map[string]time.Time{}
	}
	file.LastApplied[label] = at

	return save(s.trackerPath, file)
}

// Clear truncates both the log and the tracker. Both writes are attempted
// even if the first fails; the first error is reported.
func (s *CareLogStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logErr := save(s.logPath, logFile{Entries: []carelog.Entry{}})
	trackerErr := save(s.trackerPath, trackerFile{LastApplied: map[string]time.Time{}})

	return errors.Join(logErr, trackerErr)
}

// loadLog reads the care log file. A missing or malformed file is treated as
// no prior data rather than a startup failure.
func (s *CareLogStore) loadLog() logFile {
	var file logFile
	if !loadJSON(s.logPath, &file) {
		return logFile{}
	}
	return file
}

// loadTracker reads the tracker file, with the same tolerance as loadLog.
func (s *CareLogStore) loadTracker() trackerFile {
	var file trackerFile
	if !loadJSON(s.trackerPath, &file) {
		return trackerFile{}
	}
	return file
}

// loadJSON reads and unmarshals a JSON file into dest. Returns false when the
// file is absent, empty, or corrupt; callers fall back to empty state.
func loadJSON(path string, dest any) bool {
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// save writes a JSON file atomically via a temp file and rename.
func save(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}
