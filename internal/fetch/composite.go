package fetch

import (
	"context"
	"log/slog"
)

// Composite prefers the renderer and degrades to a plain HTTP fetch when the
// browser session fails, so a broken renderer install never takes a source
// fully offline.
type Composite struct {
	renderer Fetcher
	fallback Fetcher
	logger   *slog.Logger
}

// NewComposite builds a composite fetcher from renderer and HTTP components.
func NewComposite(renderer, fallback Fetcher) *Composite {
	return &Composite{renderer: renderer, fallback: fallback, logger: slog.Default()}
}

func (c *Composite) Fetch(ctx context.Context, url string) (string, error) {
	if c.renderer != nil {
		html, err := c.renderer.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		if ctx.Err() != nil {
			return "", err
		}
		c.logger.Warn("renderer failed, falling back to HTTP fetch", "url", url, "error", err)
	}
	return c.fallback.Fetch(ctx, url)
}
