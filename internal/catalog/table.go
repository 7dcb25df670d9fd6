package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Table holds the parsed dataset plus the original header so rows can be
// rewritten in their original column order.
type Table struct {
	header []string
	cols   map[string]int
	rows   [][]string
}

// Load reads the catalog CSV at path. Every field is sanitized on the way in
// and the image_url column is cleared unconditionally: the pipeline is the
// sole writer of record for that column within its own run. A malformed file
// is a fatal input error.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("catalog %s: missing header row", path)
	}

	header := records[0]
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[SanitizeText(name)] = i
	}
	for _, required := range []string{ColumnID, ColumnName, ColumnManufacturer, ColumnOfficialURL, ColumnImageURL} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("catalog %s: missing required column %q", path, required)
		}
	}

	rows := records[1:]
	urlCol := cols[ColumnOfficialURL]
	imageCol := cols[ColumnImageURL]
	for _, row := range rows {
		for i, field := range row {
			switch i {
			case urlCol:
				row[i] = SanitizeURL(field)
			case imageCol:
				row[i] = ""
			default:
				row[i] = SanitizeText(field)
			}
		}
	}

	return &Table{header: header, cols: cols, rows: rows}, nil
}

// Entries materializes the working entry set from the sanitized rows.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, 0, len(t.rows))
	for _, row := range t.rows {
		entries = append(entries, Entry{
			ID:           t.field(row, ColumnID),
			ShortName:    t.field(row, ColumnShortName),
			Name:         t.field(row, ColumnName),
			Manufacturer: t.field(row, ColumnManufacturer),
			OfficialURL:  t.field(row, ColumnOfficialURL),
			ImageURL:     t.field(row, ColumnImageURL),
		})
	}
	return entries
}

// SetImage writes imageURL into the row identified by id and reports whether
// a row matched. Merging by identity keeps the output independent of the
// scheduling order that produced the resolutions.
func (t *Table) SetImage(id, imageURL string) bool {
	idCol := t.cols[ColumnID]
	imageCol := t.cols[ColumnImageURL]
	for _, row := range t.rows {
		if idCol < len(row) && row[idCol] == id {
			if imageCol < len(row) {
				row[imageCol] = imageURL
				return true
			}
			return false
		}
	}
	return false
}

// Write persists the table to path in the original column order, with a
// trailing newline. The file is written whole; a failed run never leaves the
// dataset partially rewritten.
func (t *Table) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create catalog %s: %w", path, err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(t.header); err != nil {
		f.Close() //nolint:errcheck,gosec // write error takes precedence
		return fmt.Errorf("write catalog header: %w", err)
	}
	if err := writer.WriteAll(t.rows); err != nil {
		f.Close() //nolint:errcheck,gosec // write error takes precedence
		return fmt.Errorf("write catalog rows: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close() //nolint:errcheck,gosec // flush error takes precedence
		return fmt.Errorf("flush catalog %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close catalog %s: %w", path, err)
	}
	return nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) field(row []string, column string) string {
	i, ok := t.cols[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
