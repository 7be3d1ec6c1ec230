// Package scorer submits page content to a generative scoring service
// under a declared structured-output schema and normalizes the response.
package scorer

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/Thomascampurra78/Seo-geo-Toc/models"
)

// responseSchema is the machine-checkable output contract: five required
// booleans plus a required markdown summary. The service enforces it;
// ParseVerdict still validates defensively on the way back in.
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"missingToC": {
			Type:        genai.TypeBoolean,
			Description: "Page lacks a table of contents or in-page navigational aid",
		},
		"deepLinkableAnchors": {
			Type:        genai.TypeBoolean,
			Description: "Headings carry stable ids usable as URL fragments",
		},
		"naturalLanguageHeadings": {
			Type:        genai.TypeBoolean,
			Description: "Headings use natural language or question form",
		},
		"highInformationDensity": {
			Type:        genai.TypeBoolean,
			Description: "Content is entity-rich and information-dense",
		},
		"semanticHtml": {
			Type:        genai.TypeBoolean,
			Description: "Page uses semantic structural markup",
		},
		"summary": {
			Type:        genai.TypeString,
			Description: "Markdown summary covering all five judgments",
		},
	},
	Required: []string{
		"missingToC",
		"deepLinkableAnchors",
		"naturalLanguageHeadings",
		"highInformationDensity",
		"semanticHtml",
		"summary",
	},
}

// GeminiScorer scores pages through the Gemini API. Construct it once at
// application setup and pass it in; it owns no global state.
type GeminiScorer struct {
	client   *genai.Client
	model    string
	maxChars int
}

// NewGeminiScorer dials the Gemini API. maxChars caps the HTML embedded
// per prompt; <= 0 uses the default.
func NewGeminiScorer(ctx context.Context, apiKey, model string, maxChars int) (*GeminiScorer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key")
	}
	if model == "" {
		return nil, fmt.Errorf("missing model name")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if maxChars <= 0 {
		maxChars = MaxContentChars
	}
	return &GeminiScorer{client: client, model: model, maxChars: maxChars}, nil
}

// Score submits the page to the model and parses the structured verdict.
func (s *GeminiScorer) Score(ctx context.Context, url, html string) (*models.Verdict, error) {
	prompt := BuildPrompt(url, html, s.maxChars)

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("scoring request failed: %w", err)
	}

	return ParseVerdict(resp.Text())
}

// ParseVerdict decodes a scoring payload into a Verdict. A payload that
// is not a JSON object is a scoring failure, not an empty success; extra
// fields are ignored, missing booleans default to false.
func ParseVerdict(payload string) (*models.Verdict, error) {
	cleaned := fenceTrim(payload)
	if cleaned == "" {
		return nil, fmt.Errorf("empty scoring response")
	}

	// Reject non-object payloads ("true", "[1,2]", bare strings) before
	// field decoding, which would otherwise mask them.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, fmt.Errorf("scoring response is not a JSON object: %w", err)
	}

	var v models.Verdict
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return nil, fmt.Errorf("failed to decode verdict fields: %w", err)
	}
	return &v, nil
}
