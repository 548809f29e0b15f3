package domain

// Job represents a normalized job posting from any source.
// Detail fields are only populated when the caller asked for detail
// enrichment and the source supports it.
type Job struct {
	Title     string `json:"title,omitempty"`
	URL       string `json:"url,omitempty"`
	Source    string `json:"source"`
	Location  string `json:"location,omitempty"`
	JobNumber string `json:"job_number,omitempty"`

	// Enriched fields from the job's own detail page
	Description  string `json:"description,omitempty"`
	Salary       string `json:"salary,omitempty"`
	Requirements string `json:"requirements,omitempty"`
	CompanyInfo  string `json:"company_info,omitempty"`
	DetailsError string `json:"details_error,omitempty"`

	// Error descriptor fields. A record carrying Error represents a failed
	// scrape for its source, not a job.
	Error     string `json:"error,omitempty"`
	ErrorType string `json:"error_type,omitempty"`
}

// IsError reports whether the record is an error descriptor rather than a job.
func (j *Job) IsError() bool {
	return j != nil && j.Error != ""
}

// JobSource identifies a job listing source
type JobSource string

const (
	SourceTitan JobSource = "titanplacementgroup"
	SourceNPNow JobSource = "npnow"
)

// SourceDescriptor is the static per-source configuration consumed by the
// pipeline. ListingURL is the page all candidates are discovered on.
type SourceDescriptor struct {
	Source          JobSource
	ListingURL      string
	SupportsDetails bool
	// Rendered marks sources whose listing page requires JavaScript
	// execution before anchors appear in the markup.
	Rendered bool
}

// Descriptors returns the known sources in aggregate output order.
func Descriptors() []SourceDescriptor {
	return []SourceDescriptor{
		{
			Source:          SourceTitan,
			ListingURL:      "https://jobs.crelate.com/portal/titanplacementgroup",
			SupportsDetails: true,
			Rendered:        true,
		},
		{
			Source:          SourceNPNow,
			ListingURL:      "https://npnow.com/current-openings",
			SupportsDetails: false,
		},
	}
}
