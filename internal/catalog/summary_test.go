package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUpdateSummaryCreatesDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "metadata.json")
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	stats := SummaryStats{
		ImagesUpdated:        42,
		CuratedOverrides:     3,
		ManufacturerFallback: 5,
		FailedRequests:       7,
		Note:                 "resolver run abc123",
	}
	require.NoError(t, UpdateSummary(path, stats, now))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Equal(t, "2026-03-14T09:26:53Z", doc["images_generated_at"])
	require.EqualValues(t, 42, doc["images_updated"])
	require.EqualValues(t, 3, doc["images_curated_overrides"])
	require.EqualValues(t, 5, doc["images_manufacturer_fallbacks"])
	require.EqualValues(t, 7, doc["images_failed_requests"])
	require.Equal(t, "resolver run abc123", doc["images_note"])
}

func TestUpdateSummaryPreservesUnrelatedFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "metadata.json")
	existing := `{"dataset_version": "2026-02-01", "row_count": 412, "images_updated": 1}`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o600))

	require.NoError(t, UpdateSummary(path, SummaryStats{ImagesUpdated: 9}, time.Now()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Equal(t, "2026-02-01", doc["dataset_version"], "unrelated fields must survive")
	require.EqualValues(t, 412, doc["row_count"])
	require.EqualValues(t, 9, doc["images_updated"], "run counters must be replaced")
}

func TestUpdateSummaryRejectsCorruptDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "metadata.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	err := UpdateSummary(path, SummaryStats{}, time.Now())
	require.Error(t, err)
}
