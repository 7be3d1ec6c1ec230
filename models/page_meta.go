package models

// PageMeta carries locally computed page metadata. It is informational
// enrichment attached to successful fetches; it never influences the
// scoring verdict or the record status.
type PageMeta struct {
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	SiteName string `json:"site_name,omitempty" yaml:"site_name,omitempty"`
	Excerpt  string `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`

	// Language detection
	Language           string  `json:"language,omitempty" yaml:"language,omitempty"` // ISO-639-1 if possible (e.g. "en")
	LanguageConfidence float64 `json:"language_confidence,omitempty" yaml:"language_confidence,omitempty"`

	// Structural signals
	HeadingCount     int `json:"heading_count" yaml:"heading_count"`
	AnchoredHeadings int `json:"anchored_headings" yaml:"anchored_headings"` // headings carrying an id attribute
	SemanticTagCount int `json:"semantic_tag_count" yaml:"semantic_tag_count"`
	WordCount        int `json:"word_count" yaml:"word_count"`
}
