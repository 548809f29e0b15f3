package module

import (
	"context"

	"github.com/medleads/go-jobscraper/internal/domain"
)

// Scraper is the common interface for all job sources. Implementations never
// return an error: failures are converted into a single error descriptor
// record so one broken source cannot break an aggregate scrape.
type Scraper interface {
	// Scrape fetches up to limit jobs from the source's listing page
	Scrape(ctx context.Context, limit int) []*domain.Job
	// ScrapeWithDetails additionally enriches each job from its own detail
	// page when fetchDetails is true and the source supports it
	ScrapeWithDetails(ctx context.Context, limit int, fetchDetails bool) []*domain.Job
	// Source returns the source identifier
	Source() domain.JobSource
	// SupportsDetails reports whether detail enrichment is available
	SupportsDetails() bool
}

// Registry maps source identifiers to their scrapers, preserving
// registration order for aggregate output.
type Registry struct {
	scrapers map[domain.JobSource]Scraper
	order    []domain.JobSource
}

func NewRegistry() *Registry {
	return &Registry{scrapers: make(map[domain.JobSource]Scraper)}
}

func (r *Registry) Register(s Scraper) {
	src := s.Source()
	if _, exists := r.scrapers[src]; !exists {
		r.order = append(r.order, src)
	}
	r.scrapers[src] = s
}

func (r *Registry) Get(source domain.JobSource) (Scraper, bool) {
	s, ok := r.scrapers[source]
	return s, ok
}

// Sources returns the registered identifiers in registration order.
func (r *Registry) Sources() []domain.JobSource {
	out := make([]domain.JobSource, len(r.order))
	copy(out, r.order)
	return out
}
