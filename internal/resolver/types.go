// Package resolver implements the manufacturer image resolution pipeline:
// candidate extraction from vendor pages, heuristic scoring, network probing,
// and per-entry orchestration.
package resolver

import "net/url"

// CandidateKind tags where in the document a candidate URL was discovered.
// Kinds are ordered by trust; the scorer assigns each a base weight.
type CandidateKind string

// Provenance kinds, highest trust first.
const (
	KindStructuredMetadata CandidateKind = "structured-metadata"
	KindSocialCard         CandidateKind = "social-card-metadata"
	KindSemanticProperty   CandidateKind = "semantic-property"
	KindLinkHint           CandidateKind = "link-hint"
	KindEmbeddedResource   CandidateKind = "embedded-resource"
	KindInlineMarkup       CandidateKind = "inline-markup"
	KindScriptPayload      CandidateKind = "script-payload"
	KindTextMatch          CandidateKind = "unstructured-text-match"
)

// Candidate is a URL discovered in a fetched document that might be the
// entry's representative image. Candidates never outlive one entry's
// resolution.
type Candidate struct {
	URL  string
	Kind CandidateKind
}

// ScoredCandidate pairs a candidate with its static heuristic score.
type ScoredCandidate struct {
	Candidate
	Score int
}

// ProbeResult reports the transport-level evidence for a candidate URL.
// A nil *ProbeResult means "not a verifiable image".
type ProbeResult struct {
	ContentType   string
	ContentLength int64
}

// Document is a fetched page body plus the URL it was served from, used for
// relative-to-absolute candidate resolution.
type Document struct {
	URL  *url.URL
	Body []byte
}

// Outcome is the terminal state of one entry's resolution.
type Outcome string

// Terminal states per entry.
const (
	OutcomeOverridden Outcome = "overridden"
	OutcomeResolved   Outcome = "resolved"
	OutcomeUnresolved Outcome = "unresolved"
)

// Resolution is the per-entry result handed back to the merge step. It is
// keyed by entry ID so merging never depends on scheduling order.
type Resolution struct {
	EntryID        string
	ImageURL       string
	Outcome        Outcome
	FailedRequests int
}
