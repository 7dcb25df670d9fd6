package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// fetchAccept is the HTML-oriented accept header for document fetches.
const fetchAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

// Fetcher retrieves one document for candidate extraction.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Document, error)
}

// FetcherConfig tunes the shared Colly collector.
type FetcherConfig struct {
	UserAgent      string
	Timeout        time.Duration
	Concurrency    int
	BlockedDomains []string
}

// CollyFetcher implements Fetcher using the Colly collector.
type CollyFetcher struct {
	baseCollector *colly.Collector
	blocklist     *hostBlocklist
	logger        *zap.Logger
}

// NewCollyFetcher constructs a configured Colly-based Fetcher. The base
// collector is cloned per fetch so per-request handlers never interfere.
func NewCollyFetcher(cfg FetcherConfig, logger *zap.Logger) (*CollyFetcher, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}

	base := colly.NewCollector(
		colly.Async(true),
		colly.UserAgent(cfg.UserAgent),
		colly.IgnoreRobotsTxt(),
	)
	base.AllowURLRevisit = true
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          128,
		MaxIdleConnsPerHost:   32,
		MaxConnsPerHost:       cfg.Concurrency * 2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(cfg.Timeout)

	if err := base.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: cfg.Concurrency,
	}); err != nil {
		return nil, fmt.Errorf("set collector limits: %w", err)
	}

	return &CollyFetcher{
		baseCollector: base,
		blocklist:     newHostBlocklist(cfg.BlockedDomains),
		logger:        logger,
	}, nil
}

// Fetch retrieves one page via a cloned collector. The returned Document
// carries the final URL after redirects so relative candidates resolve
// against the page that actually served the markup.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) (Document, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return Document{}, fmt.Errorf("parse fetch url: %w", err)
	}
	if f.blocklist.Blocks(target.Hostname()) {
		return Document{}, fmt.Errorf("host %s is blocklisted", target.Hostname())
	}

	collector := f.baseCollector.Clone()
	resultCh := make(chan fetchResult, 1)
	var once sync.Once
	send := func(res fetchResult) {
		once.Do(func() {
			resultCh <- res
		})
	}

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", fetchAccept)
	})

	collector.OnResponse(func(r *colly.Response) {
		doc := Document{
			URL:  r.Request.URL,
			Body: append([]byte{}, r.Body...),
		}
		send(fetchResult{doc: doc})
	})

	collector.OnError(func(r *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown colly error")
		}
		if r != nil && r.StatusCode != 0 {
			err = fmt.Errorf("status %d: %w", r.StatusCode, err)
		}
		send(fetchResult{err: err})
	})

	if err := collector.Visit(rawURL); err != nil {
		return Document{}, fmt.Errorf("visit %s: %w", rawURL, err)
	}
	collector.Wait()

	select {
	case res := <-resultCh:
		if err := ctx.Err(); err != nil {
			return Document{}, err
		}
		if res.err != nil {
			observeFetch(false)
			return Document{}, res.err
		}
		observeFetch(true)
		return res.doc, nil
	default:
		return Document{}, errors.New("colly fetch produced no result")
	}
}

type fetchResult struct {
	doc Document
	err error
}
