package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/medleads/go-jobscraper/internal/common/normalizer"
	"github.com/medleads/go-jobscraper/internal/config"
	"github.com/medleads/go-jobscraper/internal/domain"
	"github.com/medleads/go-jobscraper/internal/enrich"
	"github.com/medleads/go-jobscraper/internal/fetch"
	"github.com/medleads/go-jobscraper/internal/module"
	"github.com/medleads/go-jobscraper/internal/module/npnow"
	"github.com/medleads/go-jobscraper/internal/module/titan"
)

// Pipeline is the entry point the routing layer calls into. Every method
// returns a well-formed job list; per-source failures travel as error
// descriptor records, never as errors.
type Pipeline struct {
	registry *module.Registry
	logger   *slog.Logger
}

// New wraps a populated registry.
func New(registry *module.Registry) *Pipeline {
	return &Pipeline{registry: registry, logger: slog.Default()}
}

// Build wires the production pipeline from config: fetchers, normalizer,
// enricher and one scraper per known source descriptor.
func Build(cfg *config.Config) *Pipeline {
	httpFetcher := fetch.NewHTTPFetcher(cfg.Fetch)
	renderer := fetch.NewComposite(fetch.NewRenderer(cfg.Render), httpFetcher)
	norm := normalizer.New(normalizer.DefaultConfig())
	enricher := enrich.New(renderer, cfg.Scraper.DetailConcurrency)

	registry := module.NewRegistry()
	for _, desc := range domain.Descriptors() {
		switch desc.Source {
		case domain.SourceTitan:
			fetcher := fetch.Fetcher(httpFetcher)
			if desc.Rendered {
				fetcher = renderer
			}
			registry.Register(titan.New(desc, fetcher, norm, enricher, cfg.Scraper.PoolFactor))
		case domain.SourceNPNow:
			registry.Register(npnow.New(desc, cfg.Fetch, norm))
		}
	}

	return New(registry)
}

// Sources returns the registered source identifiers.
func (p *Pipeline) Sources() []domain.JobSource {
	return p.registry.Sources()
}

// SupportsDetails reports whether a source can enrich from detail pages.
func (p *Pipeline) SupportsDetails(source domain.JobSource) bool {
	s, ok := p.registry.Get(source)
	return ok && s.SupportsDetails()
}

// Scrape returns up to limit jobs from one source. The only possible error
// is an unknown source identifier.
func (p *Pipeline) Scrape(ctx context.Context, source domain.JobSource, limit int) ([]*domain.Job, error) {
	return p.ScrapeWithDetails(ctx, source, limit, false)
}

// ScrapeWithDetails is Scrape plus optional detail enrichment where the
// source supports it.
func (p *Pipeline) ScrapeWithDetails(ctx context.Context, source domain.JobSource, limit int, fetchDetails bool) ([]*domain.Job, error) {
	scraper, ok := p.registry.Get(source)
	if !ok {
		return nil, fmt.Errorf("unknown source %q", source)
	}
	return p.run(ctx, scraper, limit, fetchDetails), nil
}

// ScrapeAll queries every registered source and concatenates results. A
// failed source contributes its error descriptor without preventing the
// remaining sources from being attempted.
func (p *Pipeline) ScrapeAll(ctx context.Context, limit int, fetchDetails bool) []*domain.Job {
	var all []*domain.Job
	for _, source := range p.registry.Sources() {
		scraper, _ := p.registry.Get(source)
		all = append(all, p.run(ctx, scraper, limit, fetchDetails)...)
	}
	return all
}

// run executes one scraper with a panic guard so a misbehaving source still
// degrades to an error record at this boundary.
func (p *Pipeline) run(ctx context.Context, scraper module.Scraper, limit int, fetchDetails bool) (jobs []*domain.Job) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("scraper panicked", "source", string(scraper.Source()), "panic", r)
			jobs = []*domain.Job{domain.NewErrorRecord(scraper.Source(), fmt.Errorf("scraper panic: %v", r))}
		}
	}()

	if fetchDetails && scraper.SupportsDetails() {
		return scraper.ScrapeWithDetails(ctx, limit, true)
	}
	return scraper.Scrape(ctx, limit)
}
