package fetch

import (
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medleads/go-jobscraper/internal/config"
)

func testConfig() config.FetchConfig {
	return config.FetchConfig{
		UserAgent:    "Mozilla/5.0 (compatible; JobScraper/1.0; +http://example.com/bot)",
		Timeout:      5 * time.Second,
		MaxBodyBytes: 1 << 20,
	}
}

func TestFetch_Success(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html><body>openings</body></html>"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(testConfig())
	html, err := f.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Contains(t, html, "openings")
	assert.Equal(t, "Mozilla/5.0 (compatible; JobScraper/1.0; +http://example.com/bot)", gotUA)
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(testConfig())
	_, err := f.Fetch(context.Background(), srv.URL)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.Status)
	assert.Equal(t, "FetchError", fetchErr.ErrorType())
}

func TestFetch_GzipBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Set("Content-Type", "text/html")
		gz := gzip.NewWriter(w)
		gz.Write([]byte("<html><body>compressed listing</body></html>"))
		gz.Close()
	}))
	defer srv.Close()

	f := NewHTTPFetcher(testConfig())
	html, err := f.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Contains(t, html, "compressed listing")
}

func TestFetch_BodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 2048)))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.MaxBodyBytes = 1024
	f := NewHTTPFetcher(cfg)
	_, err := f.Fetch(context.Background(), srv.URL)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
}

func TestFetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	f := NewHTTPFetcher(testConfig())
	_, err := f.Fetch(ctx, srv.URL)

	assert.Error(t, err)
}

type scriptedFetcher struct {
	html string
	err  error
}

func (s *scriptedFetcher) Fetch(_ context.Context, _ string) (string, error) {
	return s.html, s.err
}

func TestComposite_PrefersRenderer(t *testing.T) {
	c := NewComposite(
		&scriptedFetcher{html: "rendered"},
		&scriptedFetcher{html: "static"},
	)

	html, err := c.Fetch(context.Background(), "https://x.test")

	require.NoError(t, err)
	assert.Equal(t, "rendered", html)
}

func TestComposite_FallsBackOnRendererFailure(t *testing.T) {
	c := NewComposite(
		&scriptedFetcher{err: errors.New("chrome crashed")},
		&scriptedFetcher{html: "static"},
	)

	html, err := c.Fetch(context.Background(), "https://x.test")

	require.NoError(t, err)
	assert.Equal(t, "static", html)
}

func TestComposite_NoRenderer(t *testing.T) {
	c := NewComposite(nil, &scriptedFetcher{html: "static"})

	html, err := c.Fetch(context.Background(), "https://x.test")

	require.NoError(t, err)
	assert.Equal(t, "static", html)
}
