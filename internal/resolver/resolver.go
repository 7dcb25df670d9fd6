package resolver

import (
	"context"
	"net/url"
	"regexp"

	"go.uber.org/zap"

	"github.com/techcatalog/image-resolver/internal/catalog"
)

// Size bonus values added to a candidate's static score once a probe
// confirms the payload size.
const (
	sizeBonusLarge  = 30
	sizeBonusMedium = 18
	sizeBonusSmall  = 8
)

// ImageProber verifies that a candidate URL serves real image content.
type ImageProber interface {
	Probe(ctx context.Context, rawURL string) *ProbeResult
}

// Config bounds one entry's resolution. Thresholds are empirical defaults;
// they are loaded from configuration, not hard law.
type Config struct {
	AcceptScore     int
	ProbeLimit      int
	MinImageBytes   int64
	SizeBonusLarge  int64
	SizeBonusMedium int64
	SizeBonusSmall  int64
}

// Resolver runs the per-entry pipeline: override short-circuit, document
// fetch, extraction, scoring, probing, selection. All per-URL failures are
// local; Resolve always returns a terminal Resolution.
type Resolver struct {
	fetcher   Fetcher
	extractor Extractor
	prober    ImageProber
	overrides map[string]string
	cfg       Config
	logger    *zap.Logger
}

// New constructs a Resolver. A nil overrides map selects the compiled-in
// curated table.
func New(
	fetcher Fetcher,
	extractor Extractor,
	prober ImageProber,
	overrides map[string]string,
	cfg Config,
	logger *zap.Logger,
) *Resolver {
	if overrides == nil {
		overrides = curatedOverrides
	}
	if cfg.ProbeLimit <= 0 {
		cfg.ProbeLimit = 16
	}
	if cfg.SizeBonusLarge <= 0 {
		cfg.SizeBonusLarge = 250 * 1024
	}
	if cfg.SizeBonusMedium <= 0 {
		cfg.SizeBonusMedium = 80 * 1024
	}
	if cfg.SizeBonusSmall <= 0 {
		cfg.SizeBonusSmall = 12 * 1024
	}
	return &Resolver{
		fetcher:   fetcher,
		extractor: extractor,
		prober:    prober,
		overrides: overrides,
		cfg:       cfg,
		logger:    logger,
	}
}

// Resolve runs the pipeline for one entry. Only ImageURL is ever produced;
// the caller merges it back into the dataset by entry ID.
func (r *Resolver) Resolve(ctx context.Context, entry catalog.Entry) Resolution {
	res := Resolution{EntryID: entry.ID, Outcome: OutcomeUnresolved}

	if img, ok := r.overrides[entry.ID]; ok && img != "" {
		res.ImageURL = img
		res.Outcome = OutcomeOverridden
		ObserveEntry("override")
		return res
	}

	if !entry.HasOfficialURL() {
		return res
	}
	official, err := url.Parse(entry.OfficialURL)
	if err != nil || official.Host == "" {
		return res
	}

	docs := r.fetchDocuments(ctx, entry.ID, official, &res)
	if len(docs) == 0 {
		return res
	}

	candidates := r.collectCandidates(docs)
	ranked := RankCandidates(candidates, official.Hostname(), entry.NameTokens())
	if len(ranked) > r.cfg.ProbeLimit {
		ranked = ranked[:r.cfg.ProbeLimit]
	}

	for _, sc := range ranked {
		if hardBlockedImageURL(sc.URL) {
			continue
		}
		probe := r.prober.Probe(ctx, sc.URL)
		if probe == nil {
			res.FailedRequests++
			continue
		}
		if probe.ContentLength > 0 && probe.ContentLength < r.cfg.MinImageBytes {
			r.logger.Debug("candidate rejected as undersized",
				zap.String("entry", entry.ID),
				zap.String("url", sc.URL),
				zap.Int64("bytes", probe.ContentLength),
			)
			continue
		}
		effective := sc.Score + r.sizeBonus(probe.ContentLength)
		if effective >= r.cfg.AcceptScore {
			res.ImageURL = sc.URL
			res.Outcome = OutcomeResolved
			ObserveEntry("direct")
			r.logger.Debug("entry resolved",
				zap.String("entry", entry.ID),
				zap.String("url", sc.URL),
				zap.Int("score", effective),
			)
			return res
		}
	}

	return res
}

// fetchDocuments retrieves the official page and, when distinct, the origin
// root. Either fetch may fail independently; extraction proceeds with
// whatever succeeded.
func (r *Resolver) fetchDocuments(ctx context.Context, entryID string, official *url.URL, res *Resolution) []Document {
	targets := []string{official.String()}
	if root := originRoot(official); root != "" && root != official.String() {
		targets = append(targets, root)
	}

	var docs []Document
	for _, target := range targets {
		doc, err := r.fetcher.Fetch(ctx, target)
		if err != nil {
			res.FailedRequests++
			r.logger.Warn("document fetch failed",
				zap.String("entry", entryID),
				zap.String("url", target),
				zap.String("cause", err.Error()),
			)
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

// collectCandidates unions extraction output across documents, deduplicating
// by absolute URL in first-seen order.
func (r *Resolver) collectCandidates(docs []Document) []Candidate {
	var out []Candidate
	seen := make(map[string]struct{})
	for _, doc := range docs {
		for _, c := range r.extractor.Extract(doc.Body, doc.URL) {
			if _, ok := seen[c.URL]; ok {
				continue
			}
			seen[c.URL] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

func (r *Resolver) sizeBonus(contentLength int64) int {
	switch {
	case contentLength >= r.cfg.SizeBonusLarge:
		return sizeBonusLarge
	case contentLength >= r.cfg.SizeBonusMedium:
		return sizeBonusMedium
	case contentLength >= r.cfg.SizeBonusSmall:
		return sizeBonusSmall
	default:
		return 0
	}
}

// originRoot returns scheme://host/ for the official URL.
func originRoot(u *url.URL) string {
	if u.Scheme == "" || u.Host == "" {
		return ""
	}
	root := *u
	root.Path = "/"
	root.RawQuery = ""
	root.Fragment = ""
	return root.String()
}

// hardBlockedImageURL matches icon-family URLs that must never be probed,
// independent of score.
var hardBlockPattern = regexp.MustCompile(`(?i)(favicon|touch-icon|maskable|(?:^|[/_.\-])icons?(?:[/_.\-]|$))`)

func hardBlockedImageURL(rawURL string) bool {
	return hardBlockPattern.MatchString(rawURL)
}
