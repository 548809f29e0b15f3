package npnow

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/medleads/go-jobscraper/internal/common/normalizer"
	"github.com/medleads/go-jobscraper/internal/config"
	"github.com/medleads/go-jobscraper/internal/domain"
	"github.com/medleads/go-jobscraper/internal/fetch"
)

// pathDenylist lists same-host paths that are site chrome, not job postings.
var pathDenylist = []string{
	"/current-openings",
	"/contact",
	"/about",
	"/privacy",
	"/terms",
}

// Scraper extracts jobs from the NPNow openings page. The site serves a flat
// anchor list with no job-path convention, so the rule set is: same-host
// links with text, minus a denylist of non-job paths. No per-item location
// or job number is available.
type Scraper struct {
	desc      domain.SourceDescriptor
	collector *colly.Collector
	norm      *normalizer.Normalizer
	host      string
	logger    *slog.Logger
}

// New creates an NPNow scraper using a static colly collector.
func New(desc domain.SourceDescriptor, fetchCfg config.FetchConfig, norm *normalizer.Normalizer) *Scraper {
	c := colly.NewCollector(
		colly.UserAgent(fetchCfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	timeout := fetchCfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	c.SetRequestTimeout(timeout)

	host := ""
	if u, err := url.Parse(desc.ListingURL); err == nil {
		host = u.Host
	}

	return &Scraper{
		desc:      desc,
		collector: c,
		norm:      norm,
		host:      host,
		logger:    slog.Default().With("source", string(desc.Source)),
	}
}

func (s *Scraper) Source() domain.JobSource { return s.desc.Source }

func (s *Scraper) SupportsDetails() bool { return false }

// ScrapeWithDetails satisfies the scraper contract; NPNow has no detail
// pages, so the flag is ignored.
func (s *Scraper) ScrapeWithDetails(ctx context.Context, limit int, _ bool) []*domain.Job {
	return s.Scrape(ctx, limit)
}

func (s *Scraper) Scrape(ctx context.Context, limit int) []*domain.Job {
	candidates, err := s.extract(ctx)
	if err != nil {
		s.logger.Error("scrape failed", "error", err)
		return []*domain.Job{domain.NewErrorRecord(s.desc.Source, err)}
	}

	jobs := s.norm.Apply(candidates, limit)
	s.logger.Info("scrape complete", "candidates", len(candidates), "jobs", len(jobs))
	return jobs
}

func (s *Scraper) extract(_ context.Context) ([]*domain.Job, error) {
	var candidates []*domain.Job
	var fetchErr error
	seen := make(map[string]struct{})

	c := s.collector.Clone()

	c.OnHTML("a[href]", func(el *colly.HTMLElement) {
		href := strings.TrimSpace(el.Attr("href"))
		title := strings.TrimSpace(el.Text)
		if href == "" || title == "" {
			return
		}
		if strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
			return
		}

		absolute := el.Request.AbsoluteURL(href)
		if absolute == "" {
			return
		}
		target, err := url.Parse(absolute)
		if err != nil || target.Host != s.host {
			return
		}
		if deniedPath(target.Path) {
			return
		}
		if _, dup := seen[absolute]; dup {
			return
		}
		seen[absolute] = struct{}{}

		candidates = append(candidates, &domain.Job{
			Title:  title,
			URL:    absolute,
			Source: string(s.desc.Source),
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		fetchErr = &fetch.Error{URL: s.desc.ListingURL, Status: r.StatusCode, Err: err}
	})

	if err := c.Visit(s.desc.ListingURL); err != nil && fetchErr == nil {
		fetchErr = &fetch.Error{URL: s.desc.ListingURL, Err: err}
	}
	if fetchErr != nil {
		return nil, fetchErr
	}

	return candidates, nil
}

func deniedPath(path string) bool {
	path = strings.TrimSuffix(path, "/")
	for _, denied := range pathDenylist {
		if strings.EqualFold(path, denied) {
			return true
		}
	}
	return false
}
