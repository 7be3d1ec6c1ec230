package scorer

import (
	"fmt"
	"strings"
)

// MaxContentChars is the default cap on how much page HTML is embedded
// into the scoring prompt.
const MaxContentChars = 30000

const promptTemplate = `You are an expert in SEO and generative-engine content optimization.
Analyze the HTML of the page at %s against these five criteria:

1. missingToC: true if the page LACKS a table of contents or any in-page navigational aid summarizing its sections.
2. deepLinkableAnchors: true if headings or sections carry stable id attributes usable in a URL fragment to link directly to them.
3. naturalLanguageHeadings: true if headings are written in natural language or question form (e.g. "How do I..?") rather than terse keyword fragments.
4. highInformationDensity: true if the content is entity-rich and information-dense rather than thin or padded.
5. semanticHtml: true if the page uses structurally meaningful markup (article, section, nav, header, main) rather than generic containers.

Also produce "summary": a short markdown explanation covering all five judgments.

Page HTML (may be truncated):
%s`

// BuildPrompt assembles the scoring prompt for a page, embedding at most
// maxChars characters of its HTML. maxChars <= 0 falls back to the
// default cap.
func BuildPrompt(url, html string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = MaxContentChars
	}
	return fmt.Sprintf(promptTemplate, url, TruncateContent(html, maxChars))
}

// TruncateContent caps content at maxChars characters without splitting
// a multi-byte rune.
func TruncateContent(content string, maxChars int) string {
	if maxChars <= 0 || len(content) <= maxChars {
		return content
	}
	runes := 0
	for i := range content {
		if runes == maxChars {
			return content[:i]
		}
		runes++
	}
	return content
}

// fenceTrim strips a markdown code fence from around a model payload.
// Schema-constrained responses should be bare JSON, but fenced output
// still shows up and is cheap to accept.
func fenceTrim(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
