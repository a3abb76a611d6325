package treatment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Find(t *testing.T) {
	catalog := Catalog{
		{Label: "Neem Oil", Day: "Saturday", IntervalDays: 7},
		{Label: "Pruning", Day: "Sunday"},
	}

	got, ok := catalog.Find("Neem Oil")
	require.True(t, ok)
	assert.Equal(t, "Saturday", got.Day)
	assert.Equal(t, 7, got.IntervalDays)

	_, ok = catalog.Find("Mystery Task")
	assert.False(t, ok)
}

func TestTreatment_Tracked(t *testing.T) {
	assert.True(t, Treatment{Label: "Neem Oil", IntervalDays: 7}.Tracked())
	assert.False(t, Treatment{Label: "Pruning"}.Tracked())
}

func TestCatalog_Validate(t *testing.T) {
	tests := []struct {
		name    string
		catalog Catalog
		wantErr string
	}{
		{
			name: "valid",
			catalog: Catalog{
				{Label: "Neem Oil", IntervalDays: 7},
				{Label: "Pruning"},
			},
		},
		{
			name: "duplicate label",
			catalog: Catalog{
				{Label: "Neem Oil", IntervalDays: 7},
				{Label: "Neem Oil", IntervalDays: 14},
			},
			wantErr: "duplicate treatment label",
		},
		{
			name:    "empty label",
			catalog: Catalog{{Day: "Sunday"}},
			wantErr: "label is required",
		},
		{
			name:    "negative interval",
			catalog: Catalog{{Label: "Neem Oil", IntervalDays: -1}},
			wantErr: "must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.catalog.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCatalog_Labels(t *testing.T) {
	catalog := Catalog{
		{Label: "Neem Oil"},
		{Label: "Fertilizer"},
	}

	assert.Equal(t, []string{"Neem Oil", "Fertilizer"}, catalog.Labels())
}
