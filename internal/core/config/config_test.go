package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "/data")
	require.NoError(t, err)

	assert.Equal(t, BackendJSONFile, cfg.Storage.Backend)
	assert.Equal(t, "/data", cfg.DataDir)
	assert.NotEmpty(t, cfg.Treatments, "built-in catalog applies")
	assert.NoError(t, cfg.Treatments.Validate())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
storage:
  backend: sqlite
treatments:
  - label: "Neem Oil"
    day: "Saturday"
    every_days: 7
  - label: "Pruning"
    day: "Sunday"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, "/data")
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	require.Len(t, cfg.Treatments, 2)
	assert.Equal(t, "Neem Oil", cfg.Treatments[0].Label)
	assert.Equal(t, 7, cfg.Treatments[0].IntervalDays)
	assert.Equal(t, 0, cfg.Treatments[1].IntervalDays)
	assert.Equal(t, "/data", cfg.DataDir)
}

func TestLoad_InvalidBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: mongodb\n"), 0o644))

	_, err := Load(path, "/data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.backend")
}

func TestLoad_DuplicateTreatment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
treatments:
  - label: "Neem Oil"
    every_days: 7
  - label: "Neem Oil"
    every_days: 14
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path, "/data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate treatment label")
}
