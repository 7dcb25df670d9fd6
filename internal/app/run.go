package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/techcatalog/image-resolver/internal/catalog"
	"github.com/techcatalog/image-resolver/internal/config"
	"github.com/techcatalog/image-resolver/internal/pool"
	"github.com/techcatalog/image-resolver/internal/resolver"
)

// RunOptions carries per-invocation toggles from the command layer.
type RunOptions struct {
	// DryRun resolves every entry but writes neither the dataset nor the
	// metadata summary.
	DryRun bool
}

// Run executes the whole pipeline: load, direct resolution under the worker
// pool, manufacturer fallback, dataset rewrite, summary update. Per-entry
// failures are local; Run only fails on input or output errors, and it never
// leaves the dataset partially written.
func (a *App) Run(ctx context.Context, opts RunOptions) (catalog.SummaryStats, error) {
	runID := uuid.NewString()
	started := time.Now()
	logger := a.logger.With(zap.String("run_id", runID))

	table, err := catalog.Load(a.cfg.Catalog.Input)
	if err != nil {
		return catalog.SummaryStats{}, fmt.Errorf("load catalog: %w", err)
	}
	entries := table.Entries()
	logger.Info("catalog loaded",
		zap.String("path", a.cfg.Catalog.Input),
		zap.Int("entries", len(entries)),
	)

	res, err := a.buildResolver(logger)
	if err != nil {
		return catalog.SummaryStats{}, err
	}

	results := make([]resolver.Resolution, len(entries))
	pool.Run(ctx, a.cfg.Resolver.Workers, len(entries), logger, func(ctx context.Context, i int) {
		results[i] = res.Resolve(ctx, entries[i])
	})

	stats := mergeResults(entries, results)

	index := catalog.BuildFallbackIndex(entries)
	entries, fallbackFilled := catalog.ApplyFallback(entries, index)
	stats.ManufacturerFallback = fallbackFilled
	resolver.ObserveEntries("fallback", fallbackFilled)

	updated := 0
	for _, e := range entries {
		if e.ImageURL == "" {
			resolver.ObserveEntries("unresolved", 1)
			continue
		}
		updated++
		table.SetImage(e.ID, e.ImageURL)
	}
	stats.ImagesUpdated = updated
	stats.Note = fmt.Sprintf("image resolver run %s", runID)

	if !opts.DryRun {
		if err := table.Write(a.cfg.Catalog.Output); err != nil {
			return stats, fmt.Errorf("write catalog: %w", err)
		}
		if a.cfg.Catalog.Summary != "" {
			if err := catalog.UpdateSummary(a.cfg.Catalog.Summary, stats, time.Now()); err != nil {
				return stats, fmt.Errorf("update summary: %w", err)
			}
		}
	}

	logger.Info("resolver run finished",
		zap.Int("updated", stats.ImagesUpdated),
		zap.Int("overrides", stats.CuratedOverrides),
		zap.Int("fallbacks", stats.ManufacturerFallback),
		zap.Int("failed_requests", stats.FailedRequests),
		zap.Bool("dry_run", opts.DryRun),
		zap.Duration("elapsed", time.Since(started)),
		zap.Any("counters", resolver.Snapshot()),
	)
	return stats, nil
}

func (a *App) buildResolver(logger *zap.Logger) (*resolver.Resolver, error) {
	fetcher, err := resolver.NewCollyFetcher(resolver.FetcherConfig{
		UserAgent:      a.cfg.HTTP.UserAgent,
		Timeout:        a.cfg.FetchTimeout(),
		Concurrency:    a.cfg.Resolver.Workers,
		BlockedDomains: a.cfg.Resolver.BlockedDomains,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init fetcher: %w", err)
	}

	prober := resolver.NewProber(resolver.ProberConfig{
		UserAgent: a.cfg.HTTP.UserAgent,
		Timeout:   a.cfg.ProbeTimeout(),
		HostQPS:   a.cfg.HTTP.ProbeHostQPS,
	}, logger)

	extractor := resolver.NewDocumentExtractor(a.cfg.Resolver.MaxImageElements)

	return resolver.New(fetcher, extractor, prober, nil, resolverConfig(a.cfg), logger), nil
}

func resolverConfig(cfg config.Config) resolver.Config {
	return resolver.Config{
		AcceptScore:     cfg.Resolver.AcceptScore,
		ProbeLimit:      cfg.Resolver.ProbeLimit,
		MinImageBytes:   cfg.Resolver.MinImageBytes,
		SizeBonusLarge:  cfg.Resolver.SizeBonusLarge,
		SizeBonusMedium: cfg.Resolver.SizeBonusMedium,
		SizeBonusSmall:  cfg.Resolver.SizeBonusSmall,
	}
}

// mergeResults applies resolutions to the entry set by identity and tallies
// the per-source counters. Scheduling order never influences the merge.
func mergeResults(entries []catalog.Entry, results []resolver.Resolution) catalog.SummaryStats {
	byID := make(map[string]int, len(entries))
	for i, e := range entries {
		byID[e.ID] = i
	}

	var stats catalog.SummaryStats
	for _, r := range results {
		i, ok := byID[r.EntryID]
		if !ok {
			continue
		}
		stats.FailedRequests += r.FailedRequests
		switch r.Outcome {
		case resolver.OutcomeOverridden:
			stats.CuratedOverrides++
			entries[i].ImageURL = r.ImageURL
		case resolver.OutcomeResolved:
			entries[i].ImageURL = r.ImageURL
		}
	}
	return stats
}
