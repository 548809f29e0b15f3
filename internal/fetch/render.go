package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/medleads/go-jobscraper/internal/config"
)

// Renderer fetches a page through a headless browser session so that
// JavaScript-built listings are present in the returned markup.
type Renderer struct {
	opts   config.RenderConfig
	logger *slog.Logger
}

// NewRenderer constructs a rendered-mode fetcher from config.
func NewRenderer(cfg config.RenderConfig) *Renderer {
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 90 * time.Second
	}
	return &Renderer{opts: cfg, logger: slog.Default()}
}

// Fetch navigates to the URL, waits out the content signals, runs one
// scroll cycle for lazy-loaded listings and returns the rendered markup.
// The browser session is torn down on every exit path.
func (r *Renderer) Fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.NavTimeout)
	defer cancel()

	execOpts := []chromedp.ExecAllocatorOption{
		chromedp.Flag("headless", r.opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	}
	if r.opts.UserAgent != "" {
		execOpts = append(execOpts, chromedp.UserAgent(r.opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, execOpts...)
	defer allocCancel()

	chromeCtx, chromeCancel := chromedp.NewContext(allocCtx)
	defer chromeCancel()

	start := time.Now()
	var html string

	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.Sleep(r.opts.InitialWait),
		r.waitForContent(),
		chromedp.Sleep(r.opts.SettleWait),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(r.opts.ScrollDownWait),
		chromedp.Evaluate(`window.scrollTo(0, 0)`, nil),
		chromedp.Sleep(r.opts.ScrollUpWait),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}

	if err := chromedp.Run(chromeCtx, actions...); err != nil {
		return "", &Error{URL: url, Err: fmt.Errorf("chromedp run: %w", err)}
	}

	r.logger.Debug("rendered fetch complete",
		"url", url,
		"latency_ms", time.Since(start).Milliseconds(),
		"html_bytes", len(html),
	)
	return html, nil
}

// waitForContent waits up to SelectorWait for the content selector to
// appear. Some target sites never produce it; the wait is best-effort and
// failure is not an error.
func (r *Renderer) waitForContent() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		sel := r.opts.ContentSelector
		if sel == "" || r.opts.SelectorWait <= 0 {
			return nil
		}
		waitCtx, cancel := context.WithTimeout(ctx, r.opts.SelectorWait)
		defer cancel()
		if err := chromedp.WaitReady(sel, chromedp.ByQuery).Do(waitCtx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Debug("content selector never appeared", "selector", sel)
		}
		return nil
	})
}
