package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medleads/go-jobscraper/internal/api"
	"github.com/medleads/go-jobscraper/internal/config"
	"github.com/medleads/go-jobscraper/internal/pipeline"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	p := pipeline.Build(cfg)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewServer(p),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting job scraper API", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
