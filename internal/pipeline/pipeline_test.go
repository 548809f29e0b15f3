package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medleads/go-jobscraper/internal/domain"
	"github.com/medleads/go-jobscraper/internal/fetch"
	"github.com/medleads/go-jobscraper/internal/module"
)

type fakeScraper struct {
	source      domain.JobSource
	jobs        []*domain.Job
	supports    bool
	gotDetails  bool
	shouldPanic bool
}

func (f *fakeScraper) Scrape(ctx context.Context, limit int) []*domain.Job {
	return f.ScrapeWithDetails(ctx, limit, false)
}

func (f *fakeScraper) ScrapeWithDetails(_ context.Context, limit int, fetchDetails bool) []*domain.Job {
	if f.shouldPanic {
		panic("scraper exploded")
	}
	f.gotDetails = fetchDetails
	if limit < len(f.jobs) {
		return f.jobs[:limit]
	}
	return f.jobs
}

func (f *fakeScraper) Source() domain.JobSource { return f.source }
func (f *fakeScraper) SupportsDetails() bool    { return f.supports }

func npJobs(source string, n int) []*domain.Job {
	jobs := make([]*domain.Job, n)
	for i := range jobs {
		jobs[i] = &domain.Job{
			Title:  "Nurse Practitioner",
			URL:    "https://" + source + ".test/job/" + string(rune('a'+i)),
			Source: source,
		}
	}
	return jobs
}

func TestScrapeAll_PartialFailureIsolation(t *testing.T) {
	registry := module.NewRegistry()
	registry.Register(&fakeScraper{
		source: domain.SourceTitan,
		jobs:   []*domain.Job{domain.NewErrorRecord(domain.SourceTitan, &fetch.Error{URL: "x", Status: 500})},
	})
	registry.Register(&fakeScraper{source: domain.SourceNPNow, jobs: npJobs("npnow", 3)})
	p := New(registry)

	jobs := p.ScrapeAll(context.Background(), 20, false)

	require.Len(t, jobs, 4)
	var valid, errored int
	for _, j := range jobs {
		if j.IsError() {
			errored++
		} else {
			valid++
		}
	}
	assert.Equal(t, 3, valid)
	assert.Equal(t, 1, errored)
}

func TestScrapeAll_PanicBecomesErrorRecord(t *testing.T) {
	registry := module.NewRegistry()
	registry.Register(&fakeScraper{source: domain.SourceTitan, shouldPanic: true})
	registry.Register(&fakeScraper{source: domain.SourceNPNow, jobs: npJobs("npnow", 2)})
	p := New(registry)

	jobs := p.ScrapeAll(context.Background(), 20, false)

	require.Len(t, jobs, 3)
	assert.True(t, jobs[0].IsError())
	assert.Equal(t, string(domain.SourceTitan), jobs[0].Source)
	assert.False(t, jobs[1].IsError())
}

func TestScrape_UnknownSource(t *testing.T) {
	p := New(module.NewRegistry())

	_, err := p.Scrape(context.Background(), "monster", 20)

	assert.Error(t, err)
}

func TestScrapeWithDetails_FlagOnlyReachesSupportingSources(t *testing.T) {
	titanFake := &fakeScraper{source: domain.SourceTitan, jobs: npJobs("titanplacementgroup", 1), supports: true}
	npnowFake := &fakeScraper{source: domain.SourceNPNow, jobs: npJobs("npnow", 1)}

	registry := module.NewRegistry()
	registry.Register(titanFake)
	registry.Register(npnowFake)
	p := New(registry)

	p.ScrapeAll(context.Background(), 20, true)

	assert.True(t, titanFake.gotDetails)
	assert.False(t, npnowFake.gotDetails)
}

func TestScrapeAll_AggregateOrderFollowsRegistration(t *testing.T) {
	registry := module.NewRegistry()
	registry.Register(&fakeScraper{source: domain.SourceTitan, jobs: npJobs("titanplacementgroup", 1)})
	registry.Register(&fakeScraper{source: domain.SourceNPNow, jobs: npJobs("npnow", 1)})
	p := New(registry)

	jobs := p.ScrapeAll(context.Background(), 20, false)

	require.Len(t, jobs, 2)
	assert.Equal(t, "titanplacementgroup", jobs[0].Source)
	assert.Equal(t, "npnow", jobs[1].Source)
}
