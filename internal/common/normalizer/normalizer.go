package normalizer

import (
	"net/url"
	"strings"

	"github.com/medleads/go-jobscraper/internal/domain"
)

// Config holds the static keyword tables. Tests substitute their own tables
// without touching pipeline logic.
type Config struct {
	// Keywords a record must contain (case-insensitive substring over its
	// text fields) to be considered relevant
	Keywords []string
	// Link labels that are site navigation, never jobs
	NavLabels []string
	// Minimum title length for a candidate; shorter strings are
	// navigational noise
	MinTitleLen int
}

// DefaultConfig returns the production keyword tables.
func DefaultConfig() Config {
	return Config{
		Keywords: []string{
			"nurse practitioner",
			"physician assistant",
			"midwife",
			"pmhnp",
		},
		NavLabels:   []string{"home", "about", "contact", "apply", "back"},
		MinTitleLen: 5,
	}
}

// Normalizer filters candidates for relevance, drops duplicate URLs and caps
// output at the requested limit.
type Normalizer struct {
	cfg Config
}

// New creates a Normalizer with the given tables.
func New(cfg Config) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Apply runs relevance filtering, first-seen-wins URL dedup and truncation
// over the candidate pool, preserving encounter order. Error descriptor
// records pass through untouched.
func (n *Normalizer) Apply(candidates []*domain.Job, limit int) []*domain.Job {
	out := make([]*domain.Job, 0, limit)
	seen := make(map[string]struct{}, len(candidates))

	for _, c := range candidates {
		if c.IsError() {
			out = append(out, c)
			continue
		}
		if _, dup := seen[c.URL]; dup {
			continue
		}
		if !n.Relevant(c.Title, c.Description) {
			continue
		}
		seen[c.URL] = struct{}{}
		out = append(out, c)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Relevant reports whether any text field contains a relevance keyword.
// Matching is plain substring over the lowercased text, not tokenized.
func (n *Normalizer) Relevant(texts ...string) bool {
	if len(n.cfg.Keywords) == 0 {
		return true
	}
	var b strings.Builder
	for _, t := range texts {
		b.WriteString(strings.ToLower(t))
		b.WriteByte(' ')
	}
	haystack := b.String()
	for _, kw := range n.cfg.Keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

// AcceptableTitle rejects empty, too-short and known navigational titles.
func (n *Normalizer) AcceptableTitle(title string) bool {
	title = strings.TrimSpace(title)
	if len(title) < n.cfg.MinTitleLen {
		return false
	}
	lower := strings.ToLower(title)
	for _, label := range n.cfg.NavLabels {
		if lower == label {
			return false
		}
	}
	return true
}

// ResolveURL resolves href against the page base. Two URLs are the same
// record iff byte-equal after resolution; no trailing-slash or query
// normalization is applied.
func ResolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// JobNumber parses the site-local identifier out of a job-detail href,
// stripping query string and fragment. Returns "" when the href does not
// follow the /job/ convention.
func JobNumber(href string) string {
	const marker = "/job/"
	idx := strings.LastIndex(href, marker)
	if idx < 0 {
		return ""
	}
	num := href[idx+len(marker):]
	if i := strings.IndexByte(num, '?'); i >= 0 {
		num = num[:i]
	}
	if i := strings.IndexByte(num, '#'); i >= 0 {
		num = num[:i]
	}
	return num
}
