package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/types"
)

func TestHistorySummary_OmitsData(t *testing.T) {
	summary := HistorySummary{ID: 7, Label: "Manual save"}

	raw, err := json.Marshal(summary)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.NotContains(t, decoded, "data")
	assert.Equal(t, float64(7), decoded["id"])
	assert.Equal(t, "Manual save", decoded["label"])
}

func TestHistoryEntry_EmptyLabelOmitted(t *testing.T) {
	entry := HistoryEntry{ID: 1, Data: types.Resume{}}

	raw, err := json.Marshal(entry)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.NotContains(t, decoded, "label")
}

func TestStorageError_WrapsCause(t *testing.T) {
	cause := assert.AnError
	err := &StorageError{Op: "save resume", Cause: cause}

	assert.Contains(t, err.Error(), "save resume")
	assert.ErrorIs(t, err, cause)
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, "default", currentSlotID)
	assert.Equal(t, 50, DefaultHistoryLimit)
}
