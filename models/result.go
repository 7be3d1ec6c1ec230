// Package models defines the data structures shared across the analysis pipeline.
package models

// Status is the lifecycle state of a single URL's analysis.
// Transitions are monotonic: pending moves to exactly one of success or
// error and never reverts.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Verdict is the structured output contract of the scoring service: five
// required booleans plus a required markdown summary. JSON tags match the
// declared response schema field names exactly.
type Verdict struct {
	MissingToC              bool   `json:"missingToC" yaml:"missing_toc"`
	DeepLinkableAnchors     bool   `json:"deepLinkableAnchors" yaml:"deep_linkable_anchors"`
	NaturalLanguageHeadings bool   `json:"naturalLanguageHeadings" yaml:"natural_language_headings"`
	HighInformationDensity  bool   `json:"highInformationDensity" yaml:"high_information_density"`
	SemanticHTML            bool   `json:"semanticHtml" yaml:"semantic_html"`
	Summary                 string `json:"summary" yaml:"summary"`
}

// AnalysisResult is one URL's record. The URL field is set once when the
// run starts and never rewritten; completion replaces the whole record.
// Verdict fields are meaningful only when Status is StatusSuccess and
// Error is non-empty only when Status is StatusError.
type AnalysisResult struct {
	URL     string    `json:"url" yaml:"url"`
	Status  Status    `json:"status" yaml:"status"`
	Verdict Verdict   `json:"verdict" yaml:"verdict"`
	Error   string    `json:"error,omitempty" yaml:"error,omitempty"`
	Page    *PageMeta `json:"page,omitempty" yaml:"page,omitempty"`
}

// NewPendingResult seeds the record published before analysis starts.
func NewPendingResult(url string) AnalysisResult {
	return AnalysisResult{URL: url, Status: StatusPending}
}

// SuccessResult builds the terminal success record for a URL.
func SuccessResult(url string, v Verdict, page *PageMeta) AnalysisResult {
	return AnalysisResult{URL: url, Status: StatusSuccess, Verdict: v, Page: page}
}

// ErrorResult builds the terminal error record for a URL. All verdict
// fields stay at their zero values.
func ErrorResult(url string, msg string) AnalysisResult {
	return AnalysisResult{URL: url, Status: StatusError, Error: msg}
}
