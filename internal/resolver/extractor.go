package resolver

import (
	"bytes"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extractor turns one fetched document into an ordered, deduplicated list of
// image-URL candidates. Implementations must be deterministic for a fixed
// document so extraction is idempotent.
type Extractor interface {
	Extract(body []byte, base *url.URL) []Candidate
}

// DocumentExtractor walks the parsed markup with goquery and scans script
// payloads with text patterns. Malformed or truncated markup is handled by
// the parser's own error recovery; extraction never fails, it just finds
// fewer candidates.
type DocumentExtractor struct {
	maxImageElements int
}

// NewDocumentExtractor bounds the per-document img scan at maxImageElements.
func NewDocumentExtractor(maxImageElements int) *DocumentExtractor {
	if maxImageElements <= 0 {
		maxImageElements = 80
	}
	return &DocumentExtractor{maxImageElements: maxImageElements}
}

var (
	// Absolute or root-relative URL ending in an image extension.
	imageURLPattern = regexp.MustCompile(`(?i)(?:https?://|/)[^\s"'<>\\)]+\.(?:jpe?g|png|webp|gif|avif)(?:\?[^\s"'<>\\)]*)?`)
	// Any absolute or root-relative URL-ish token inside script text.
	scriptURLPattern = regexp.MustCompile(`(?i)(?:https?://|/)[^\s"'<>\\)]+`)
)

// Extract applies every extraction rule independently and unions the results,
// preserving first-seen order and deduplicating by exact absolute URL.
func (e *DocumentExtractor) Extract(body []byte, base *url.URL) []Candidate {
	var out []Candidate
	seen := make(map[string]struct{})
	add := func(raw string, kind CandidateKind) {
		abs := resolveCandidateURL(raw, base)
		if abs == "" {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		out = append(out, Candidate{URL: abs, Kind: kind})
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err == nil {
		e.extractMeta(doc, add)
		e.extractLinks(doc, add)
		e.extractSources(doc, add)
		e.extractImages(doc, add)
		e.extractScripts(doc, add)
	}

	// Last resort: absolute image URLs anywhere in the raw text.
	for _, match := range imageURLPattern.FindAllString(string(body), -1) {
		if strings.HasPrefix(strings.ToLower(match), "http") {
			add(match, KindTextMatch)
		}
	}

	return out
}

func (e *DocumentExtractor) extractMeta(doc *goquery.Document, add func(string, CandidateKind)) {
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		key, _ := s.Attr("property")
		if key == "" {
			key, _ = s.Attr("name")
		}
		if key == "" {
			key, _ = s.Attr("itemprop")
		}
		content, _ := s.Attr("content")
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "og:image", "og:image:url", "og:image:secure_url":
			add(content, KindStructuredMetadata)
		case "twitter:image", "twitter:image:src":
			add(content, KindSocialCard)
		case "image", "thumbnailurl":
			add(content, KindSemanticProperty)
		}
	})
}

func (e *DocumentExtractor) extractLinks(doc *goquery.Document, add func(string, CandidateKind)) {
	doc.Find("link").Each(func(_ int, s *goquery.Selection) {
		rel, _ := s.Attr("rel")
		rel = strings.ToLower(strings.TrimSpace(rel))
		href, _ := s.Attr("href")
		switch {
		case strings.Contains(rel, "image_src"):
			add(href, KindLinkHint)
		case rel == "preload":
			if as, _ := s.Attr("as"); strings.EqualFold(strings.TrimSpace(as), "image") {
				add(href, KindLinkHint)
			}
		}
	})
}

func (e *DocumentExtractor) extractSources(doc *goquery.Document, add func(string, CandidateKind)) {
	doc.Find("source").Each(func(_ int, s *goquery.Selection) {
		if srcset, ok := s.Attr("srcset"); ok {
			add(bestSrcsetEntry(srcset), KindEmbeddedResource)
		}
		if src, ok := s.Attr("src"); ok {
			add(src, KindEmbeddedResource)
		}
	})
}

func (e *DocumentExtractor) extractImages(doc *goquery.Document, add func(string, CandidateKind)) {
	count := 0
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if count >= e.maxImageElements {
			return false
		}
		count++
		if src, ok := s.Attr("src"); ok {
			add(src, KindInlineMarkup)
		}
		if lazy, ok := s.Attr("data-src"); ok {
			add(lazy, KindInlineMarkup)
		}
		if srcset, ok := s.Attr("srcset"); ok {
			add(bestSrcsetEntry(srcset), KindInlineMarkup)
		}
		return true
	})
}

func (e *DocumentExtractor) extractScripts(doc *goquery.Document, add func(string, CandidateKind)) {
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		if text == "" {
			return
		}
		typ, _ := s.Attr("type")
		if strings.Contains(strings.ToLower(typ), "json") {
			// JSON-LD and friends escape slashes; undo before scanning.
			text = strings.ReplaceAll(text, `\/`, "/")
			for _, match := range imageURLPattern.FindAllString(text, -1) {
				add(match, KindScriptPayload)
			}
			return
		}
		for _, match := range scriptURLPattern.FindAllString(text, -1) {
			if hasImagePathSignal(match) {
				add(match, KindInlineMarkup)
			}
		}
	})
}

// hasImagePathSignal reports whether a scanned token looks like an image
// path: a recognized extension, or an images/media/assets path segment.
func hasImagePathSignal(raw string) bool {
	lower := strings.ToLower(raw)
	if imageURLPattern.MatchString(lower) {
		return true
	}
	for _, segment := range []string{"/images/", "/image/", "/media/", "/assets/"} {
		if strings.Contains(lower, segment) {
			return true
		}
	}
	return false
}

// bestSrcsetEntry picks the highest-weighted URL from a srcset attribute.
// Width descriptors (NNNw) weigh by pixel width; density descriptors (N.Nx)
// are scaled by 1000 so they dominate plain widths. Ties keep the first.
func bestSrcsetEntry(srcset string) string {
	best := ""
	bestWeight := -1.0
	for _, part := range strings.Split(srcset, ",") {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) == 0 {
			continue
		}
		candidate := fields[0]
		weight := 1.0
		if len(fields) > 1 {
			desc := strings.ToLower(fields[1])
			switch {
			case strings.HasSuffix(desc, "w"):
				if w, err := strconv.ParseFloat(strings.TrimSuffix(desc, "w"), 64); err == nil {
					weight = w
				}
			case strings.HasSuffix(desc, "x"):
				if d, err := strconv.ParseFloat(strings.TrimSuffix(desc, "x"), 64); err == nil {
					weight = d * 1000
				}
			}
		}
		if weight > bestWeight {
			bestWeight = weight
			best = candidate
		}
	}
	return best
}

// resolveCandidateURL makes raw absolute against base and filters out
// non-http(s) and pseudo-URL schemes. Returns "" when the candidate is
// unusable.
func resolveCandidateURL(raw string, base *url.URL) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(raw)
	for _, scheme := range []string{"data:", "javascript:", "blob:", "about:"} {
		if strings.HasPrefix(lower, scheme) {
			return ""
		}
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}
	if ref.Host == "" {
		return ""
	}
	ref.Fragment = ""
	return ref.String()
}
