package resolver

import "testing"

func TestScoreIsPure(t *testing.T) {
	t.Parallel()

	c := Candidate{URL: "https://vendor.example/img/mouse-hero.jpg", Kind: KindStructuredMetadata}
	tokens := []string{"mouse", "hero"}

	first := Score(c, "vendor.example", tokens)
	for i := 0; i < 10; i++ {
		if got := Score(c, "vendor.example", tokens); got != first {
			t.Fatalf("score changed between calls: %d vs %d", first, got)
		}
	}
}

func TestScoreKindOrdering(t *testing.T) {
	t.Parallel()

	kinds := []CandidateKind{
		KindStructuredMetadata,
		KindSocialCard,
		KindSemanticProperty,
		KindLinkHint,
		KindEmbeddedResource,
		KindInlineMarkup,
		KindScriptPayload,
		KindTextMatch,
	}

	prev := int(1 << 30)
	for _, kind := range kinds {
		c := Candidate{URL: "https://vendor.example/img/a.jpg", Kind: kind}
		got := Score(c, "vendor.example", nil)
		if got >= prev {
			t.Fatalf("kind %s scored %d, expected strictly below previous %d", kind, got, prev)
		}
		prev = got
	}
}

func TestScoreDomainAffinity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		url          string
		officialHost string
		delta        int
	}{
		{"exact host", "https://vendor.example/a.jpg", "vendor.example", scoreSameDomain},
		{"shared registrable domain", "https://cdn.vendor.example/a.jpg", "www.vendor.example", scoreSameDomain},
		{"two-part suffix aware", "https://images.vendor.co.uk/a.jpg", "www.vendor.co.uk", scoreSameDomain},
		{"unrelated host", "https://elsewhere.example/a.jpg", "vendor.example", 0},
		{"social asset host", "https://scontent.fbcdn.net/a.jpg", "vendor.example", scoreSocialHost},
	}

	baseline := kindWeights[KindInlineMarkup] + scoreImageExtension
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Candidate{URL: tt.url, Kind: KindInlineMarkup}
			if got := Score(c, tt.officialHost, nil); got != baseline+tt.delta {
				t.Fatalf("Score(%s) = %d, want %d", tt.url, got, baseline+tt.delta)
			}
		})
	}
}

func TestSocialHostNeverBeatsSameDomain(t *testing.T) {
	t.Parallel()

	social := Candidate{URL: "https://pbs.twimg.com/media/product.jpg", Kind: KindStructuredMetadata}
	sameDomain := Candidate{URL: "https://vendor.example/media/product.jpg", Kind: KindTextMatch}

	socialScore := Score(social, "vendor.example", nil)
	domainScore := Score(sameDomain, "vendor.example", nil)
	if socialScore >= domainScore {
		t.Fatalf("social asset host scored %d, same-domain candidate %d; social must lose", socialScore, domainScore)
	}
}

func TestScorePathSignals(t *testing.T) {
	t.Parallel()

	official := "vendor.example"
	base := Score(Candidate{URL: "https://vendor.example/file", Kind: KindInlineMarkup}, official, nil)

	tests := []struct {
		name  string
		url   string
		delta int
	}{
		{"image extension", "https://vendor.example/file.jpg", scoreImageExtension},
		{"svg penalty", "https://vendor.example/file.svg", scoreSVG},
		{"images segment", "https://vendor.example/images/file", scoreImageSegment},
		{"deny token logo", "https://vendor.example/logo.jpg", scoreDenyToken + scoreImageExtension},
		{"deny token favicon", "https://vendor.example/favicon.png", scoreDenyToken + scoreImageExtension},
		{"large dimensions", "https://vendor.example/file-1200x800", scoreLargeDims},
		{"small dimensions", "https://vendor.example/file-64x64", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(Candidate{URL: tt.url, Kind: KindInlineMarkup}, official, nil)
			if got != base+tt.delta {
				t.Fatalf("Score(%s) = %d, want %d", tt.url, got, base+tt.delta)
			}
		})
	}
}

func TestScoreTokenRelevanceCapped(t *testing.T) {
	t.Parallel()

	official := "vendor.example"
	tokens := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta"}
	c := Candidate{
		URL:  "https://vendor.example/alpha-beta-gamma-delta-epsilon-zeta",
		Kind: KindInlineMarkup,
	}

	base := Score(Candidate{URL: "https://vendor.example/nothing", Kind: KindInlineMarkup}, official, nil)
	got := Score(c, official, tokens)
	if got != base+scoreTokenCap {
		t.Fatalf("expected token bonus capped at %d, got delta %d", scoreTokenCap, got-base)
	}
}

func TestScoreUnparseableURL(t *testing.T) {
	t.Parallel()

	c := Candidate{URL: "https://%zz invalid", Kind: KindStructuredMetadata}
	if got := Score(c, "vendor.example", nil); got != scoreUnparseable {
		t.Fatalf("expected %d for unparseable URL, got %d", scoreUnparseable, got)
	}
}

func TestRankCandidatesStable(t *testing.T) {
	t.Parallel()

	candidates := []Candidate{
		{URL: "https://vendor.example/img/a.jpg", Kind: KindInlineMarkup},
		{URL: "https://vendor.example/img/b.jpg", Kind: KindInlineMarkup},
		{URL: "https://vendor.example/img/hero.jpg", Kind: KindStructuredMetadata},
	}

	ranked := RankCandidates(candidates, "vendor.example", nil)
	if ranked[0].URL != "https://vendor.example/img/hero.jpg" {
		t.Fatalf("expected structured metadata candidate first, got %s", ranked[0].URL)
	}
	if ranked[1].URL != "https://vendor.example/img/a.jpg" || ranked[2].URL != "https://vendor.example/img/b.jpg" {
		t.Fatal("equal scores must keep discovery order")
	}
}

func TestRegistrableDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		host string
		want string
	}{
		{"vendor.example", "vendor.example"},
		{"www.vendor.example", "vendor.example"},
		{"a.b.vendor.com", "vendor.com"},
		{"images.vendor.co.uk", "vendor.co.uk"},
		{"vendor.co.uk", "vendor.co.uk"},
		{"localhost", "localhost"},
	}

	for _, tt := range tests {
		if got := registrableDomain(tt.host); got != tt.want {
			t.Fatalf("registrableDomain(%q) = %q, want %q", tt.host, got, tt.want)
		}
	}
}
