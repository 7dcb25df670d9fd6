package catalog

import "testing"

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Acme Widget", "Acme Widget"},
		{"control chars", "Acme\x00 Widget\x1f", "Acme Widget"},
		{"collapsed whitespace", "  Acme \t\n Widget  ", "Acme Widget"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.in); got != tt.want {
				t.Fatalf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"https kept", "https://vendor.example/product", "https://vendor.example/product"},
		{"http kept", "http://vendor.example", "http://vendor.example"},
		{"ftp dropped", "ftp://vendor.example/file", ""},
		{"javascript dropped", "javascript:alert(1)", ""},
		{"garbage dropped", "http://vendor.example/%zz\x7f", ""},
		{"relative dropped", "/just/a/path", ""},
		{"empty", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeURL(tt.in); got != tt.want {
				t.Fatalf("SanitizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNameTokens(t *testing.T) {
	t.Parallel()

	e := Entry{Name: "MX Master 3S Wireless Mouse", ShortName: "MX Master 3S"}
	tokens := e.NameTokens()

	want := map[string]bool{"master": true, "wireless": true, "mouse": true}
	for _, tok := range tokens {
		if len(tok) < 3 {
			t.Fatalf("token %q shorter than 3 chars", tok)
		}
		delete(want, tok)
	}
	if len(want) != 0 {
		t.Fatalf("missing tokens %v in %v", want, tokens)
	}

	seen := make(map[string]int)
	for _, tok := range tokens {
		seen[tok]++
		if seen[tok] > 1 {
			t.Fatalf("duplicate token %q", tok)
		}
	}
}
