package resolver

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// probeAccept is the image-oriented accept header used by both probe
// variants, distinct from the HTML-oriented document fetch profile.
const probeAccept = "image/avif,image/webp,image/apng,image/*,*/*;q=0.8"

// Prober verifies that a candidate URL actually serves image content.
// A metadata-only request goes first; a two-byte ranged request covers
// servers that reject HEAD or omit headers on it. Every failure mode maps to
// a nil result, never an error the caller must handle.
type Prober struct {
	client    *http.Client
	userAgent string
	hostQPS   rate.Limit
	logger    *zap.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// ProberConfig bounds probe requests.
type ProberConfig struct {
	UserAgent string
	Timeout   time.Duration
	HostQPS   float64
}

// NewProber constructs a Prober with its own HTTP client so probe traffic
// never shares connection limits with document fetches.
func NewProber(cfg ProberConfig, logger *zap.Logger) *Prober {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 12 * time.Second
	}
	if cfg.HostQPS <= 0 {
		cfg.HostQPS = 4
	}
	return &Prober{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				MaxIdleConns:          64,
				MaxIdleConnsPerHost:   8,
				IdleConnTimeout:       30 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: cfg.Timeout,
				ForceAttemptHTTP2:     true,
			},
		},
		userAgent: cfg.UserAgent,
		hostQPS:   rate.Limit(cfg.HostQPS),
		logger:    logger,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// Probe checks rawURL and returns transport-level evidence, or nil when the
// URL is not a verifiable image. Network errors, non-success statuses, and
// wrong content types all yield nil.
func (p *Prober) Probe(ctx context.Context, rawURL string) *ProbeResult {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil
	}
	if err := p.limiter(u.Hostname()).Wait(ctx); err != nil {
		return nil
	}

	if res := p.request(ctx, rawURL, http.MethodHead, false); res != nil {
		observeProbe("head_ok")
		return res
	}
	if res := p.request(ctx, rawURL, http.MethodGet, true); res != nil {
		observeProbe("range_ok")
		return res
	}
	observeProbe("failed")
	return nil
}

func (p *Prober) request(ctx context.Context, rawURL, method string, ranged bool) *ProbeResult {
	reqCtx, cancel := context.WithTimeout(ctx, p.client.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, rawURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Accept", probeAccept)
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	if ranged {
		req.Header.Set("Range", "bytes=0-1")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("probe request failed",
			zap.String("url", rawURL),
			zap.String("method", method),
			zap.Error(err),
		)
		return nil
	}
	defer resp.Body.Close() //nolint:errcheck // body is at most two bytes

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil
	}
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(contentType, "image/") {
		return nil
	}

	return &ProbeResult{
		ContentType:   contentType,
		ContentLength: probeContentLength(resp),
	}
}

// probeContentLength prefers the Content-Range total for ranged responses,
// then the declared Content-Length; 0 means unknown.
func probeContentLength(resp *http.Response) int64 {
	if contentRange := resp.Header.Get("Content-Range"); contentRange != "" {
		if idx := strings.LastIndex(contentRange, "/"); idx >= 0 {
			if total, err := strconv.ParseInt(contentRange[idx+1:], 10, 64); err == nil && total > 0 {
				return total
			}
		}
	}
	if resp.ContentLength > 0 && resp.StatusCode != http.StatusPartialContent {
		return resp.ContentLength
	}
	if raw := resp.Header.Get("Content-Length"); raw != "" && resp.StatusCode != http.StatusPartialContent {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

func (p *Prober) limiter(host string) *rate.Limiter {
	host = strings.ToLower(host)
	p.mu.Lock()
	defer p.mu.Unlock()
	if lim, ok := p.limiters[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(p.hostQPS, int(p.hostQPS)+1)
	p.limiters[host] = lim
	return lim
}
