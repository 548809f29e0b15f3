package domain

import (
	"context"
	"errors"
)

// Classifier lets error producers report their taxonomy bucket without the
// domain package importing them.
type Classifier interface {
	ErrorType() string
}

// NewErrorRecord converts a scrape failure into the error descriptor record
// returned in place of a job list. The descriptor carries only error,
// error_type and source so callers can tell it apart from a legitimate
// zero-job result.
func NewErrorRecord(source JobSource, err error) *Job {
	return &Job{
		Source:    string(source),
		Error:     err.Error(),
		ErrorType: classify(err),
	}
}

func classify(err error) string {
	var c Classifier
	if errors.As(err, &c) {
		return c.ErrorType()
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "FetchError"
	}
	return "ScrapeError"
}
