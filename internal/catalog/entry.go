// Package catalog reads and writes the tabular product dataset the resolver
// enriches. The CSV schema is header-driven; unknown columns pass through
// untouched so the pipeline never loses fields it does not understand.
package catalog

import (
	"net/url"
	"regexp"
	"strings"
)

// Column names the pipeline depends on. Any remaining columns are opaque.
const (
	ColumnID           = "id"
	ColumnShortName    = "short_name"
	ColumnName         = "name"
	ColumnManufacturer = "manufacturer"
	ColumnOfficialURL  = "official_url"
	ColumnImageURL     = "image_url"
)

// Entry is the working view of one catalog row. The pipeline owns ImageURL
// for the duration of a run; every other field is read-only.
type Entry struct {
	ID           string
	ShortName    string
	Name         string
	Manufacturer string
	OfficialURL  string
	ImageURL     string
}

// HasOfficialURL reports whether the entry is eligible for direct resolution.
func (e Entry) HasOfficialURL() bool {
	return e.OfficialURL != ""
}

var (
	controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// SanitizeText strips control characters and collapses runs of whitespace.
func SanitizeText(s string) string {
	s = controlChars.ReplaceAllString(s, " ")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SanitizeURL returns the cleaned URL, or the empty string when the value
// does not parse or carries a non-http(s) scheme. Callers never see an error.
func SanitizeURL(raw string) string {
	raw = SanitizeText(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.String()
	default:
		return ""
	}
}

// NameTokens splits an entry's name and short name into lowercase tokens of
// at least three characters, deduplicated, for path-relevance scoring.
func (e Entry) NameTokens() []string {
	seen := make(map[string]struct{})
	var tokens []string
	for _, source := range []string{e.Name, e.ShortName} {
		for _, tok := range splitTokens(source) {
			if len(tok) < 3 {
				continue
			}
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func splitTokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		default:
			return true
		}
	})
}
