package catalog

import "strings"

// FallbackIndex maps a normalized manufacturer name to the first image URL
// resolved for that manufacturer during the direct pass. It is built once,
// after all direct resolution has completed, and is read-only afterwards.
type FallbackIndex map[string]string

// NormalizeManufacturer produces the index key for a manufacturer name.
func NormalizeManufacturer(name string) string {
	return strings.ToLower(SanitizeText(name))
}

// BuildFallbackIndex scans already-resolved entries in their original order.
// First resolved image per manufacturer wins.
func BuildFallbackIndex(entries []Entry) FallbackIndex {
	index := make(FallbackIndex)
	for _, e := range entries {
		if e.ImageURL == "" {
			continue
		}
		key := NormalizeManufacturer(e.Manufacturer)
		if key == "" {
			continue
		}
		if _, ok := index[key]; !ok {
			index[key] = e.ImageURL
		}
	}
	return index
}

// ApplyFallback backfills unresolved entries from the index in place and
// returns how many entries it filled.
func ApplyFallback(entries []Entry, index FallbackIndex) ([]Entry, int) {
	filled := 0
	for i, e := range entries {
		if e.ImageURL != "" {
			continue
		}
		if img, ok := index[NormalizeManufacturer(e.Manufacturer)]; ok && img != "" {
			entries[i].ImageURL = img
			filled++
		}
	}
	return entries, filled
}
