// Package fetcher retrieves rendered page HTML for analysis.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultUserAgent = "seostruct/1.0"

// Fetcher is the content-fetch collaborator. It treats any transport
// failure or non-2xx status as a retrieval failure; redirects and caching
// are whatever the underlying client does by default.
type Fetcher struct {
	client *http.Client
	// proxyPrefix, when non-empty, is prepended to the target URL so the
	// request goes through a rendering proxy.
	proxyPrefix string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout bounds a single fetch.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithProxy routes fetches through a proxy by URL prefixing. The target
// URL is appended verbatim to the prefix.
func WithProxy(prefix string) Option {
	return func(f *Fetcher) {
		f.proxyPrefix = prefix
	}
}

// NewFetcher builds a Fetcher with a 30s default timeout.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the page HTML for url, or an error when the request
// fails or the server answers with a non-2xx status.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	body, err := f.fetchBytes(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetDocument fetches url and parses the response into a goquery document.
func (f *Fetcher) GetDocument(ctx context.Context, url string) (*goquery.Document, error) {
	html, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

func (f *Fetcher) fetchBytes(ctx context.Context, url string) ([]byte, error) {
	target := url
	if f.proxyPrefix != "" {
		target = f.proxyPrefix + url
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch HTML, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
