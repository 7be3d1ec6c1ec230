// Package pagemeta computes local page metadata: readability-derived
// title/site/excerpt, detected language, and structural tag counts.
// Everything here is informational; scoring verdicts come from the
// external service only.
package pagemeta

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"

	"github.com/Thomascampurra78/Seo-geo-Toc/models"
)

// semanticTags are the structurally meaningful elements counted as a
// semantic-markup signal.
var semanticTags = []string{"article", "section", "nav", "header", "main", "aside", "footer"}

// Extractor holds the language detector, which is expensive to build and
// safe to share across pages.
type Extractor struct {
	detector lingua.LanguageDetector
}

// NewExtractor builds an Extractor with a detector over the languages a
// marketing page realistically shows up in.
func NewExtractor() *Extractor {
	languages := []lingua.Language{
		lingua.English,
		lingua.Spanish,
		lingua.French,
		lingua.German,
		lingua.Italian,
		lingua.Portuguese,
		lingua.Dutch,
		lingua.Japanese,
		lingua.Chinese,
	}
	return &Extractor{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build(),
	}
}

// Extract computes page metadata from raw HTML. It never fails: pages
// that defeat readability still get the structural counts, and unknown
// languages are left empty.
func (e *Extractor) Extract(rawURL, html string) *models.PageMeta {
	meta := &models.PageMeta{}

	plainText := ""
	if parsedURL, err := url.Parse(rawURL); err == nil {
		parser := readability.NewParser()
		if article, err := parser.Parse(strings.NewReader(html), parsedURL); err == nil {
			meta.Title = strings.TrimSpace(article.Title)
			meta.SiteName = strings.TrimSpace(article.SiteName)
			meta.Excerpt = strings.TrimSpace(article.Excerpt)
			plainText = article.TextContent
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		e.fillStructure(doc, meta)
		if meta.Title == "" {
			meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
		}
		if plainText == "" {
			plainText = doc.Find("body").Text()
		}
	}

	meta.WordCount = len(strings.Fields(plainText))
	e.fillLanguage(plainText, meta)

	return meta
}

func (e *Extractor) fillStructure(doc *goquery.Document, meta *models.PageMeta) {
	headings := doc.Find("h1,h2,h3,h4")
	meta.HeadingCount = headings.Length()

	headings.Each(func(_ int, s *goquery.Selection) {
		if id, exists := s.Attr("id"); exists && id != "" {
			meta.AnchoredHeadings++
		}
	})

	for _, tag := range semanticTags {
		meta.SemanticTagCount += doc.Find(tag).Length()
	}
}

func (e *Extractor) fillLanguage(text string, meta *models.PageMeta) {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return
	}
	// A short prefix is enough for detection and keeps it cheap.
	sample = truncateRunes(sample, 2000)

	lang, ok := e.detector.DetectLanguageOf(sample)
	if !ok {
		return
	}
	meta.Language = strings.ToLower(lang.IsoCode639_1().String())
	meta.LanguageConfidence = e.detector.ComputeLanguageConfidence(sample, lang)
}

func truncateRunes(s string, max int) string {
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
