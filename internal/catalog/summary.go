package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// SummaryStats carries the per-run counters persisted alongside the dataset.
type SummaryStats struct {
	ImagesUpdated        int
	CuratedOverrides     int
	ManufacturerFallback int
	FailedRequests       int
	Note                 string
}

// UpdateSummary performs a read-modify-write of the metadata summary JSON at
// path. Unrelated fields that other tools have written are preserved; a
// missing or empty file starts from an empty document.
func UpdateSummary(path string, stats SummaryStats, now time.Time) error {
	doc := make(map[string]any)

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// first run, fresh document
	case err != nil:
		return fmt.Errorf("read summary %s: %w", path, err)
	case len(raw) > 0:
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("parse summary %s: %w", path, err)
		}
	}

	doc["images_generated_at"] = now.UTC().Format(time.RFC3339)
	doc["images_updated"] = stats.ImagesUpdated
	doc["images_curated_overrides"] = stats.CuratedOverrides
	doc["images_manufacturer_fallbacks"] = stats.ManufacturerFallback
	doc["images_failed_requests"] = stats.FailedRequests
	if stats.Note != "" {
		doc["images_note"] = stats.Note
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	payload = append(payload, '\n')
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("write summary %s: %w", path, err)
	}
	return nil
}
