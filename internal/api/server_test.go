package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medleads/go-jobscraper/internal/domain"
)

type stubService struct {
	gotLimit   int
	gotDetails bool
}

func (s *stubService) Sources() []domain.JobSource {
	return []domain.JobSource{domain.SourceTitan, domain.SourceNPNow}
}

func (s *stubService) SupportsDetails(source domain.JobSource) bool {
	return source == domain.SourceTitan
}

func (s *stubService) ScrapeWithDetails(_ context.Context, source domain.JobSource, limit int, fetchDetails bool) ([]*domain.Job, error) {
	s.gotLimit = limit
	s.gotDetails = fetchDetails
	switch source {
	case domain.SourceTitan, domain.SourceNPNow:
		return []*domain.Job{{Title: "Nurse Practitioner", URL: "https://x.test/job/1", Source: string(source)}}, nil
	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
}

func (s *stubService) ScrapeAll(_ context.Context, limit int, fetchDetails bool) []*domain.Job {
	s.gotLimit = limit
	s.gotDetails = fetchDetails
	return []*domain.Job{
		{Title: "Nurse Practitioner", URL: "https://x.test/job/1", Source: "titanplacementgroup"},
		domain.NewErrorRecord(domain.SourceNPNow, fmt.Errorf("listing unreachable")),
	}
}

func doRequest(t *testing.T, srv *Server, method, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealth(t *testing.T) {
	srv := NewServer(&stubService{})

	rec, body := doRequest(t, srv, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.ElementsMatch(t, []any{"titanplacementgroup", "npnow"}, body["scrapers"])
	assert.Equal(t, []any{"titanplacementgroup"}, body["detail_scraping"])
}

func TestSourceJobs(t *testing.T) {
	stub := &stubService{}
	srv := NewServer(stub)

	rec, body := doRequest(t, srv, http.MethodGet, "/jobs/titanplacementgroup?limit=5&details=true")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "titanplacementgroup", body["source"])
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, true, body["details_fetched"])
	assert.Equal(t, 5, stub.gotLimit)
	assert.True(t, stub.gotDetails)
}

func TestSourceJobs_UnknownSource(t *testing.T) {
	srv := NewServer(&stubService{})

	rec, body := doRequest(t, srv, http.MethodGet, "/jobs/monster")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body["error"], "monster")
}

func TestLimitClamping(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", defaultLimit},
		{"?limit=abc", defaultLimit},
		{"?limit=0", 1},
		{"?limit=-3", 1},
		{"?limit=100", 100},
		{"?limit=5000", 100},
	}

	for _, tt := range tests {
		stub := &stubService{}
		srv := NewServer(stub)
		rec, _ := doRequest(t, srv, http.MethodGet, "/jobs/npnow"+tt.query)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, tt.want, stub.gotLimit, "query %q", tt.query)
	}
}

func TestAllJobs_PartialFailureStillSucceeds(t *testing.T) {
	srv := NewServer(&stubService{})

	rec, body := doRequest(t, srv, http.MethodGet, "/jobs/all")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["total_count"])
	// npnow failed, so only titan is listed as a contributing source
	assert.Equal(t, []any{"titanplacementgroup"}, body["sources"])

	jobs, ok := body["jobs"].([]any)
	require.True(t, ok)
	require.Len(t, jobs, 2)
	errEntry := jobs[1].(map[string]any)
	assert.NotEmpty(t, errEntry["error"])
}

func TestMethodNotAllowed(t *testing.T) {
	srv := NewServer(&stubService{})

	rec, _ := doRequest(t, srv, http.MethodPost, "/jobs/all")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}
