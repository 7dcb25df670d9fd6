package resolver

import "strings"

// hostBlocklist answers "may we talk to this host at all". A bare pattern
// blocks that exact host; a "*.domain" or ".domain" pattern blocks the domain
// and everything under it. Blocked hosts are never fetched.
//
// The compiled-in socialAssets list reuses the same matcher for scoring:
// social-network CDNs host share buttons and tracking pixels, not product
// photography, so the scorer penalizes them instead of refusing the request.
type hostBlocklist struct {
	exactHosts      map[string]struct{}
	blockedSuffixes map[string]struct{}
}

var socialAssets = newHostBlocklist([]string{
	".fbcdn.net", ".facebook.com", ".fbsbx.com",
	".twimg.com", ".twitter.com", ".x.com",
	".licdn.com", ".linkedin.com",
	".pinimg.com", ".pinterest.com",
	".cdninstagram.com", ".instagram.com",
	".ytimg.com", ".youtube.com",
	".tiktokcdn.com", ".tiktok.com",
})

// newHostBlocklist compiles the pattern list. An empty or all-blank list
// yields nil, which Blocks treats as "nothing blocked".
func newHostBlocklist(patterns []string) *hostBlocklist {
	bl := &hostBlocklist{
		exactHosts:      make(map[string]struct{}),
		blockedSuffixes: make(map[string]struct{}),
	}
	for _, raw := range patterns {
		pattern := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case pattern == "":
		case strings.HasPrefix(pattern, "*."):
			if domain := pattern[2:]; domain != "" {
				bl.blockedSuffixes[domain] = struct{}{}
			}
		case strings.HasPrefix(pattern, "."):
			if domain := pattern[1:]; domain != "" {
				bl.blockedSuffixes[domain] = struct{}{}
			}
		default:
			bl.exactHosts[pattern] = struct{}{}
		}
	}
	if len(bl.exactHosts) == 0 && len(bl.blockedSuffixes) == 0 {
		return nil
	}
	return bl
}

// Blocks reports whether host matches the list. Safe on a nil receiver.
func (bl *hostBlocklist) Blocks(host string) bool {
	if bl == nil {
		return false
	}
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return false
	}
	if _, ok := bl.exactHosts[host]; ok {
		return true
	}
	for domain := range bl.blockedSuffixes {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
