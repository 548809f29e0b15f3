package cleaner

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var collapseSpace = regexp.MustCompile(`[ \t]+`)

// Cleaner sanitizes scraped HTML fragments using Bluemonday
type Cleaner struct {
	strict *bluemonday.Policy
}

// NewCleaner creates a cleaner that strips all markup
func NewCleaner() *Cleaner {
	return &Cleaner{strict: bluemonday.StrictPolicy()}
}

// CleanToText removes all HTML and returns normalized plain text
func (c *Cleaner) CleanToText(html string) string {
	text := c.strict.Sanitize(html)

	text = collapseSpace.ReplaceAllString(text, " ")
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text)
}
