package titan

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/medleads/go-jobscraper/internal/common/normalizer"
	"github.com/medleads/go-jobscraper/internal/domain"
	"github.com/medleads/go-jobscraper/internal/enrich"
	"github.com/medleads/go-jobscraper/internal/fetch"
	"github.com/medleads/go-jobscraper/internal/module"
)

// roleKeywords activate the fallback strategy: block elements mentioning any
// of these are scanned for nested job anchors when the primary anchor scan
// comes up empty.
var roleKeywords = []string{
	"practitioner", "physician", "nurse", "therapist",
	"dentist", "hygienist", "medical", "doctor",
}

// Scraper extracts jobs from the Titan Placement Group portal. The listing
// is JavaScript-rendered, so fetching goes through the rendered-mode fetcher.
type Scraper struct {
	desc       domain.SourceDescriptor
	fetcher    fetch.Fetcher
	norm       *normalizer.Normalizer
	enricher   *enrich.Enricher
	poolFactor int
	logger     *slog.Logger
}

// New creates a Titan scraper. The fetcher should be rendered-capable;
// enricher may be nil to disable detail support.
func New(desc domain.SourceDescriptor, fetcher fetch.Fetcher, norm *normalizer.Normalizer, enricher *enrich.Enricher, poolFactor int) *Scraper {
	if poolFactor <= 0 {
		poolFactor = 3
	}
	return &Scraper{
		desc:       desc,
		fetcher:    fetcher,
		norm:       norm,
		enricher:   enricher,
		poolFactor: poolFactor,
		logger:     slog.Default().With("source", string(desc.Source)),
	}
}

func (s *Scraper) Source() domain.JobSource { return s.desc.Source }

func (s *Scraper) SupportsDetails() bool {
	return s.desc.SupportsDetails && s.enricher != nil
}

func (s *Scraper) Scrape(ctx context.Context, limit int) []*domain.Job {
	return s.ScrapeWithDetails(ctx, limit, false)
}

func (s *Scraper) ScrapeWithDetails(ctx context.Context, limit int, fetchDetails bool) []*domain.Job {
	jobs, err := s.scrape(ctx, limit)
	if err != nil {
		s.logger.Error("scrape failed", "error", err)
		return []*domain.Job{domain.NewErrorRecord(s.desc.Source, err)}
	}
	if fetchDetails && s.SupportsDetails() {
		jobs = s.enricher.Enrich(ctx, jobs, true)
	}
	return jobs
}

func (s *Scraper) scrape(ctx context.Context, limit int) ([]*domain.Job, error) {
	html, err := s.fetcher.Fetch(ctx, s.desc.ListingURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &module.ParseError{URL: s.desc.ListingURL, Err: err}
	}

	base, err := url.Parse(s.desc.ListingURL)
	if err != nil {
		return nil, &module.ParseError{URL: s.desc.ListingURL, Err: err}
	}

	pool := limit * s.poolFactor
	candidates := s.extractAnchors(doc, base, pool)
	if len(candidates) == 0 {
		s.logger.Info("primary strategy found nothing, trying block scan")
		candidates = s.extractFromBlocks(doc, base, pool)
	}

	jobs := s.norm.Apply(candidates, limit)
	s.logger.Info("scrape complete", "candidates", len(candidates), "jobs", len(jobs))
	return jobs, nil
}

// extractAnchors is the primary strategy: every anchor whose target contains
// a /job/ path segment is a candidate, minus navigational noise.
func (s *Scraper) extractAnchors(doc *goquery.Document, base *url.URL, pool int) []*domain.Job {
	var jobs []*domain.Job
	seen := make(map[string]struct{})

	doc.Find(`a[href*="/job/"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		title := strings.TrimSpace(a.Text())

		if href == "" || !s.norm.AcceptableTitle(title) {
			return true
		}

		fullURL := normalizer.ResolveURL(base, href)
		if fullURL == "" {
			return true
		}
		if _, dup := seen[fullURL]; dup {
			return true
		}
		seen[fullURL] = struct{}{}

		jobs = append(jobs, &domain.Job{
			Title:     title,
			URL:       fullURL,
			Source:    string(s.desc.Source),
			JobNumber: normalizer.JobNumber(href),
		})
		return len(jobs) < pool
	})

	return jobs
}

// extractFromBlocks is the fallback strategy for listings that nest job
// anchors inside descriptive containers: scan block elements whose text
// mentions a healthcare role, then pull job-path anchors out of them.
func (s *Scraper) extractFromBlocks(doc *goquery.Document, base *url.URL, pool int) []*domain.Job {
	var jobs []*domain.Job
	seen := make(map[string]struct{})

	doc.Find("div, article, section").EachWithBreak(func(_ int, block *goquery.Selection) bool {
		text := strings.ToLower(block.Text())
		if !containsAny(text, roleKeywords) {
			return true
		}

		block.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href := strings.TrimSpace(a.AttrOr("href", ""))
			if !strings.Contains(href, "/job/") && !strings.Contains(href, "/portal/") {
				return true
			}

			title := strings.TrimSpace(a.Text())
			if !s.norm.AcceptableTitle(title) {
				return true
			}

			fullURL := normalizer.ResolveURL(base, href)
			if fullURL == "" {
				return true
			}
			if _, dup := seen[fullURL]; dup {
				return true
			}
			seen[fullURL] = struct{}{}

			jobs = append(jobs, &domain.Job{
				Title:     title,
				URL:       fullURL,
				Source:    string(s.desc.Source),
				JobNumber: normalizer.JobNumber(href),
			})
			return len(jobs) < pool
		})

		return len(jobs) < pool
	})

	return jobs
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
