// Package pipeline drives the per-URL analysis run: it seeds pending
// records for every input URL, analyzes them strictly in order, and
// publishes a fresh snapshot after each completion so callers can render
// partial progress before the run finishes.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Thomascampurra78/Seo-geo-Toc/models"
)

// ContentFetcher retrieves the rendered HTML of a page.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Scorer submits page content for structured scoring.
type Scorer interface {
	Score(ctx context.Context, url, html string) (*models.Verdict, error)
}

// MetaExtractor computes optional local page metadata.
type MetaExtractor interface {
	Extract(rawURL, html string) *models.PageMeta
}

// Observer receives a snapshot of the full result list. It is called once
// with every record pending before the first analysis starts, then once
// after each record reaches a terminal status. Snapshots are copies; the
// observer may keep them.
type Observer func(snapshot []models.AnalysisResult)

// Runner coordinates the collaborators. It never fails as a whole: every
// failure is contained in the affected URL's record.
type Runner struct {
	fetcher  ContentFetcher
	scorer   Scorer
	meta     MetaExtractor
	observer Observer
	logger   *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithObserver registers a snapshot observer.
func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observer = o }
}

// WithMetaExtractor enables local page metadata enrichment.
func WithMetaExtractor(m MetaExtractor) Option {
	return func(r *Runner) { r.meta = m }
}

// WithLogger sets the run logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// NewRunner builds a Runner around the two required collaborators.
func NewRunner(fetcher ContentFetcher, scorer Scorer, opts ...Option) *Runner {
	r := &Runner{
		fetcher: fetcher,
		scorer:  scorer,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run analyzes urls strictly one at a time, in input order. Blank entries
// are trimmed away first; an empty resulting list is a no-op returning
// nil with no observer calls. The returned list always has exactly one
// record per remaining input line, in input order, every record terminal.
func (r *Runner) Run(ctx context.Context, urls []string) []models.AnalysisResult {
	cleaned := make([]string, 0, len(urls))
	for _, u := range urls {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}

	results := make([]models.AnalysisResult, len(cleaned))
	for i, u := range cleaned {
		results[i] = models.NewPendingResult(u)
	}
	r.publish(results)

	for i, u := range cleaned {
		r.logger.Info("Analyzing URL", "url", u, "position", i+1, "total", len(cleaned))
		results[i] = r.analyze(ctx, u)
		if results[i].Status == models.StatusError {
			r.logger.Error("Analysis failed", "url", u, "error", results[i].Error)
		} else {
			r.logger.Info("Analysis complete", "url", u)
		}
		r.publish(results)
	}

	return results
}

// analyze runs both stages for one URL. It never raises: retrieval and
// scoring failures are both folded into the returned record.
func (r *Runner) analyze(ctx context.Context, url string) models.AnalysisResult {
	html, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return models.ErrorResult(url, fmt.Sprintf("content retrieval failed: %v", err))
	}

	verdict, err := r.scorer.Score(ctx, url, html)
	if err != nil {
		return models.ErrorResult(url, fmt.Sprintf("scoring failed: %v", err))
	}

	var meta *models.PageMeta
	if r.meta != nil {
		meta = r.meta.Extract(url, html)
	}

	return models.SuccessResult(url, *verdict, meta)
}

// publish hands the observer a copy of the current list; records are
// replaced wholesale, never mutated, so the copy is safe to retain.
func (r *Runner) publish(results []models.AnalysisResult) {
	if r.observer == nil {
		return
	}
	snapshot := make([]models.AnalysisResult, len(results))
	copy(snapshot, results)
	r.observer(snapshot)
}
