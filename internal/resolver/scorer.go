package resolver

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Base weights by provenance kind, highest trust first.
var kindWeights = map[CandidateKind]int{
	KindStructuredMetadata: 50,
	KindSocialCard:         45,
	KindSemanticProperty:   40,
	KindLinkHint:           32,
	KindEmbeddedResource:   28,
	KindInlineMarkup:       20,
	KindScriptPayload:      14,
	KindTextMatch:          8,
}

// Domain affinity and path signal weights.
const (
	scoreSameDomain     = 60
	scoreSubdomain      = 35
	scoreSocialHost     = -120
	scoreImageExtension = 18
	scoreImageSegment   = 8
	scoreSVG            = -40
	scoreDenyToken      = -160
	scoreTokenHit       = 9
	scoreTokenCap       = 36
	scoreLargeDims      = 10
	scoreUnparseable    = -999

	minDimWidth  = 500
	minDimHeight = 300
)

// Known two-part public suffixes, enough for vendor domains we meet in
// practice. Registrable-domain comparison only; no full PSL.
var twoPartSuffixes = map[string]struct{}{
	"co.uk": {}, "org.uk": {}, "me.uk": {}, "ac.uk": {},
	"com.au": {}, "net.au": {}, "org.au": {},
	"co.jp": {}, "ne.jp": {}, "or.jp": {},
	"com.br": {}, "com.mx": {}, "com.ar": {},
	"co.nz": {}, "co.in": {}, "co.kr": {}, "co.za": {},
	"com.cn": {}, "com.tw": {}, "com.hk": {}, "com.sg": {},
}

var denyTokens = []string{
	"logo", "icon", "favicon", "sprite", "placeholder", "avatar",
	"badge", "manifest", "apple-touch", "maskable", "pwa",
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif", ".avif", ".jfif"}

var pathDimensions = regexp.MustCompile(`(\d{2,5})\s*[xX]\s*(\d{2,5})`)

// Score assigns the static heuristic relevance of a candidate given the
// entry's official host and name tokens. It is a pure function and performs
// no I/O: same inputs, same score.
func Score(c Candidate, officialHost string, tokens []string) int {
	u, err := url.Parse(c.URL)
	if err != nil || u.Host == "" {
		return scoreUnparseable
	}

	score := kindWeights[c.Kind]
	score += domainAffinity(u.Hostname(), officialHost)
	score += pathSignal(u.Path)
	score += tokenRelevance(u.Path, tokens)
	score += dimensionHint(u.Path)
	return score
}

func domainAffinity(candidateHost, officialHost string) int {
	candidateHost = strings.ToLower(candidateHost)
	officialHost = strings.ToLower(strings.TrimSpace(officialHost))

	if socialAssets.Blocks(candidateHost) {
		return scoreSocialHost
	}
	if officialHost == "" || candidateHost == "" {
		return 0
	}
	if registrableDomain(candidateHost) == registrableDomain(officialHost) {
		return scoreSameDomain
	}
	if strings.HasSuffix(candidateHost, "."+officialHost) || strings.HasSuffix(officialHost, "."+candidateHost) {
		return scoreSubdomain
	}
	return 0
}

// RankCandidates scores every candidate and orders them best-first. The sort
// is stable, so equal scores keep their discovery order.
func RankCandidates(candidates []Candidate, officialHost string, tokens []string) []ScoredCandidate {
	ranked := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, ScoredCandidate{Candidate: c, Score: Score(c, officialHost, tokens)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// registrableDomain strips subdomains with awareness of common two-part
// public suffixes: images.vendor.co.uk -> vendor.co.uk.
func registrableDomain(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return host
	}
	lastTwo := strings.Join(labels[len(labels)-2:], ".")
	if _, ok := twoPartSuffixes[lastTwo]; ok {
		if len(labels) < 3 {
			return host
		}
		return strings.Join(labels[len(labels)-3:], ".")
	}
	return lastTwo
}

func pathSignal(path string) int {
	lower := strings.ToLower(path)
	score := 0

	for _, token := range denyTokens {
		if strings.Contains(lower, token) {
			score += scoreDenyToken
			break
		}
	}

	switch {
	case strings.HasSuffix(lower, ".svg"):
		score += scoreSVG
	case hasImageExtension(lower):
		score += scoreImageExtension
	}

	for _, segment := range []string{"/images/", "/image/", "/media/", "/assets/", "/img/"} {
		if strings.Contains(lower, segment) {
			score += scoreImageSegment
			break
		}
	}
	return score
}

func hasImageExtension(lowerPath string) bool {
	// Trailing query strings are already split off by url.Parse.
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lowerPath, ext) {
			return true
		}
	}
	return false
}

func tokenRelevance(path string, tokens []string) int {
	lower := strings.ToLower(path)
	score := 0
	for _, tok := range tokens {
		if len(tok) < 3 {
			continue
		}
		if strings.Contains(lower, tok) {
			score += scoreTokenHit
			if score >= scoreTokenCap {
				return scoreTokenCap
			}
		}
	}
	return score
}

func dimensionHint(path string) int {
	m := pathDimensions.FindStringSubmatch(path)
	if m == nil {
		return 0
	}
	w, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	h, err := strconv.Atoi(m[2])
	if err != nil {
		return 0
	}
	if w >= minDimWidth && h >= minDimHeight {
		return scoreLargeDims
	}
	return 0
}
