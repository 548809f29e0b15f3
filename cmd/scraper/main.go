package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/medleads/go-jobscraper/internal/config"
	"github.com/medleads/go-jobscraper/internal/domain"
	"github.com/medleads/go-jobscraper/internal/pipeline"
)

// One-shot scrape to stdout, for cron-free manual runs and debugging.
func main() {
	source := flag.String("source", "", "source id to scrape (empty = all sources)")
	limit := flag.Int("limit", 20, "maximum jobs per source (1-100)")
	details := flag.Bool("details", false, "fetch detail pages where supported")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *limit < 1 {
		*limit = 1
	}
	if *limit > 100 {
		*limit = 100
	}

	cfg := config.Load()
	p := pipeline.Build(cfg)
	ctx := context.Background()

	var jobs []*domain.Job
	if *source == "" {
		jobs = p.ScrapeAll(ctx, *limit, *details)
	} else {
		var err error
		jobs, err = p.ScrapeWithDetails(ctx, domain.JobSource(*source), *limit, *details)
		if err != nil {
			logger.Error("scrape failed", "error", err)
			os.Exit(1)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jobs); err != nil {
		logger.Error("encode output", "error", err)
		os.Exit(1)
	}
}
