package enrich

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/medleads/go-jobscraper/internal/common/cleaner"
	"github.com/medleads/go-jobscraper/internal/domain"
	"github.com/medleads/go-jobscraper/internal/fetch"
)

// Lookup conventions for detail pages, tried in order; the first match wins
// and a field with no match is simply omitted.
var (
	descriptionSelectors  = []string{"div.job-description", "div.description", "div#job-description", "div.job-details"}
	locationSelectors     = []string{"span.location", "div.job-location"}
	salarySelectors       = []string{"span.salary", "div.compensation"}
	requirementsSelectors = []string{"div.requirements", "div.qualifications"}
	companySelectors      = []string{"div.company-info"}
)

// Enricher fetches each job's own page and merges detail fields into the
// record. Failures are isolated per record: a job whose detail page cannot
// be scraped keeps its base fields and gains only details_error.
type Enricher struct {
	fetcher     fetch.Fetcher
	cleaner     *cleaner.Cleaner
	concurrency int
	logger      *slog.Logger
}

// New creates an Enricher. The fetcher should be rendered-capable since
// detail pages on the supported sources are JavaScript-built. Concurrency
// bounds simultaneous detail fetches; 1 means sequential.
func New(fetcher fetch.Fetcher, concurrency int) *Enricher {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Enricher{
		fetcher:     fetcher,
		cleaner:     cleaner.NewCleaner(),
		concurrency: concurrency,
		logger:      slog.Default(),
	}
}

// Enrich merges detail-page fields into each record. A no-op returning the
// input unchanged when fetchDetails is false. Discovery order is preserved:
// workers write results back at the record's own index.
func (e *Enricher) Enrich(ctx context.Context, jobs []*domain.Job, fetchDetails bool) []*domain.Job {
	if !fetchDetails || len(jobs) == 0 {
		return jobs
	}

	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup

	for _, job := range jobs {
		if job.IsError() || job.URL == "" {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(job *domain.Job) {
			defer wg.Done()
			defer func() { <-sem }()
			e.enrichOne(ctx, job)
		}(job)
	}

	wg.Wait()
	return jobs
}

func (e *Enricher) enrichOne(ctx context.Context, job *domain.Job) {
	html, err := e.fetcher.Fetch(ctx, job.URL)
	if err != nil {
		e.logger.Warn("detail fetch failed", "url", job.URL, "error", err)
		job.DetailsError = err.Error()
		return
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		job.DetailsError = err.Error()
		return
	}

	if desc := e.firstHTMLAsText(doc, descriptionSelectors); desc != "" {
		job.Description = desc
	}
	if loc := firstText(doc, locationSelectors); loc != "" {
		job.Location = loc
	}
	if salary := firstText(doc, salarySelectors); salary != "" {
		job.Salary = salary
	}
	if req := e.firstHTMLAsText(doc, requirementsSelectors); req != "" {
		job.Requirements = req
	}
	if company := firstText(doc, companySelectors); company != "" {
		job.CompanyInfo = company
	}

	e.logger.Debug("detail enrichment complete", "url", job.URL)
}

// firstHTMLAsText returns the sanitized plain text of the first matching
// element's inner HTML.
func (e *Enricher) firstHTMLAsText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if html, err := node.Html(); err == nil {
			if text := e.cleaner.CleanToText(html); text != "" {
				return text
			}
		}
	}
	return ""
}

func firstText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}
