package module

import "fmt"

// ParseError marks markup that could not be parsed into a document at all.
// Structural lookups that merely miss are not errors; fields are omitted.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrorType reports the taxonomy bucket for error descriptor records.
func (e *ParseError) ErrorType() string { return "ParseError" }
