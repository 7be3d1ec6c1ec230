package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Thomascampurra78/Seo-geo-Toc/models"
)

type fakeFetcher struct {
	calls   []string
	failFor map[string]error
	html    string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if err, ok := f.failFor[url]; ok {
		return "", err
	}
	if f.html != "" {
		return f.html, nil
	}
	return "<html><body>page</body></html>", nil
}

type fakeScorer struct {
	calls   []string
	failFor map[string]error
	verdict models.Verdict
}

func (s *fakeScorer) Score(_ context.Context, url, _ string) (*models.Verdict, error) {
	s.calls = append(s.calls, url)
	if err, ok := s.failFor[url]; ok {
		return nil, err
	}
	v := s.verdict
	return &v, nil
}

func okVerdict() models.Verdict {
	return models.Verdict{
		MissingToC:              true,
		NaturalLanguageHeadings: true,
		SemanticHTML:            true,
		Summary:                 "ok",
	}
}

func TestRun_OrderAndLengthPreserved(t *testing.T) {
	urls := []string{"https://a.example", "https://b.example", "https://c.example"}
	runner := NewRunner(&fakeFetcher{}, &fakeScorer{verdict: okVerdict()})

	results := runner.Run(context.Background(), urls)

	if len(results) != len(urls) {
		t.Fatalf("got %d results, want %d", len(results), len(urls))
	}
	for i, r := range results {
		if r.URL != urls[i] {
			t.Errorf("results[%d].URL = %q, want %q", i, r.URL, urls[i])
		}
	}
}

func TestRun_EmptyInputIsNoOp(t *testing.T) {
	fetcher := &fakeFetcher{}
	scorer := &fakeScorer{}
	var snapshots [][]models.AnalysisResult
	runner := NewRunner(fetcher, scorer, WithObserver(func(s []models.AnalysisResult) {
		snapshots = append(snapshots, s)
	}))

	for _, urls := range [][]string{nil, {}, {"", "  ", "\t"}} {
		results := runner.Run(context.Background(), urls)
		if results != nil {
			t.Errorf("Run(%v) = %v, want nil", urls, results)
		}
	}

	if len(fetcher.calls) != 0 {
		t.Errorf("fetcher was called %d times, want 0", len(fetcher.calls))
	}
	if len(snapshots) != 0 {
		t.Errorf("observer received %d snapshots, want 0", len(snapshots))
	}
}

func TestRun_InitialSnapshotAllPending(t *testing.T) {
	urls := []string{"https://a.example", "https://b.example"}
	var snapshots [][]models.AnalysisResult
	runner := NewRunner(&fakeFetcher{}, &fakeScorer{verdict: okVerdict()},
		WithObserver(func(s []models.AnalysisResult) {
			snapshots = append(snapshots, s)
		}))

	runner.Run(context.Background(), urls)

	// One initial snapshot plus one per completed URL.
	if len(snapshots) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(snapshots))
	}
	for i, r := range snapshots[0] {
		if r.Status != models.StatusPending {
			t.Errorf("initial snapshot[%d].Status = %q, want pending", i, r.Status)
		}
		if r.Verdict != (models.Verdict{}) {
			t.Errorf("initial snapshot[%d] has non-zero verdict fields", i)
		}
		if r.Error != "" {
			t.Errorf("initial snapshot[%d].Error = %q, want empty", i, r.Error)
		}
	}
}

func TestRun_StatusTransitionsExactlyOnce(t *testing.T) {
	urls := []string{"https://a.example", "https://b.example", "https://c.example"}
	fetcher := &fakeFetcher{failFor: map[string]error{"https://b.example": errors.New("boom")}}
	var snapshots [][]models.AnalysisResult
	runner := NewRunner(fetcher, &fakeScorer{verdict: okVerdict()},
		WithObserver(func(s []models.AnalysisResult) {
			snapshots = append(snapshots, s)
		}))

	runner.Run(context.Background(), urls)

	// Walk each record through every snapshot: once it leaves pending it
	// must keep the same terminal status.
	for i := range urls {
		terminal := models.Status("")
		for si, snap := range snapshots {
			status := snap[i].Status
			if terminal == "" {
				if status != models.StatusPending {
					terminal = status
				}
				continue
			}
			if status != terminal {
				t.Errorf("snapshot %d: record %d status %q after terminal %q", si, i, status, terminal)
			}
		}
		if terminal != models.StatusSuccess && terminal != models.StatusError {
			t.Errorf("record %d never reached a terminal status", i)
		}
	}
}

func TestRun_SequentialProcessing(t *testing.T) {
	urls := []string{"https://a.example", "https://b.example"}
	fetcher := &fakeFetcher{}
	scorer := &fakeScorer{verdict: okVerdict()}
	var sawMidRun bool
	runner := NewRunner(fetcher, scorer, WithObserver(func(s []models.AnalysisResult) {
		// After the first completion the second record must still be
		// untouched: URL i+1 does not start until URL i finished.
		if s[0].Status == models.StatusSuccess && s[1].Status == models.StatusPending {
			sawMidRun = true
			if len(fetcher.calls) != 1 {
				t.Errorf("fetcher called %d times at first completion, want 1", len(fetcher.calls))
			}
		}
	}))

	runner.Run(context.Background(), urls)

	if !sawMidRun {
		t.Error("never observed a partial snapshot with the second URL still pending")
	}
}

func TestRun_FetchErrorDoesNotHaltRun(t *testing.T) {
	urls := []string{"https://a.example", "https://b.example"}
	fetcher := &fakeFetcher{failFor: map[string]error{"https://a.example": errors.New("connection refused")}}
	scorer := &fakeScorer{verdict: okVerdict()}
	runner := NewRunner(fetcher, scorer)

	results := runner.Run(context.Background(), urls)

	if results[0].Status != models.StatusError {
		t.Errorf("results[0].Status = %q, want error", results[0].Status)
	}
	if results[0].Error == "" {
		t.Error("results[0].Error is empty, want a descriptive message")
	}
	if results[1].Status != models.StatusSuccess {
		t.Errorf("results[1].Status = %q, want success", results[1].Status)
	}
	if len(scorer.calls) != 1 || scorer.calls[0] != "https://b.example" {
		t.Errorf("scorer calls = %v, want only the second URL", scorer.calls)
	}
}

func TestRun_ScoringSuccessScenario(t *testing.T) {
	urls := []string{"https://a.example", "https://b.example"}
	scorer := &fakeScorer{verdict: models.Verdict{
		MissingToC:              true,
		DeepLinkableAnchors:     false,
		NaturalLanguageHeadings: true,
		HighInformationDensity:  false,
		SemanticHTML:            true,
		Summary:                 "ok",
	}}
	runner := NewRunner(&fakeFetcher{}, scorer)

	results := runner.Run(context.Background(), urls)

	for i, r := range results {
		if r.Status != models.StatusSuccess {
			t.Fatalf("results[%d].Status = %q, want success", i, r.Status)
		}
		v := r.Verdict
		if !v.MissingToC || v.DeepLinkableAnchors || !v.NaturalLanguageHeadings ||
			v.HighInformationDensity || !v.SemanticHTML {
			t.Errorf("results[%d] verdict = %+v, want scenario values", i, v)
		}
		if v.Summary != "ok" {
			t.Errorf("results[%d].Summary = %q, want %q", i, v.Summary, "ok")
		}
	}
}

func TestRun_ScoringErrorSecondURLOnly(t *testing.T) {
	urls := []string{"https://a.example", "https://b.example"}
	scorer := &fakeScorer{
		verdict: okVerdict(),
		failFor: map[string]error{"https://b.example": errors.New("model overloaded")},
	}
	runner := NewRunner(&fakeFetcher{}, scorer)

	results := runner.Run(context.Background(), urls)

	if results[0].Status != models.StatusSuccess {
		t.Errorf("results[0].Status = %q, want success", results[0].Status)
	}
	if results[1].Status != models.StatusError {
		t.Fatalf("results[1].Status = %q, want error", results[1].Status)
	}
	if results[1].Error == "" {
		t.Error("results[1].Error is empty")
	}
	if results[1].Verdict != (models.Verdict{}) {
		t.Errorf("results[1] verdict = %+v, want all-zero", results[1].Verdict)
	}
}

func TestRun_DuplicateURLsGetIndependentRecords(t *testing.T) {
	urls := []string{"https://a.example", "https://a.example"}
	fetcher := &fakeFetcher{}
	runner := NewRunner(fetcher, &fakeScorer{verdict: okVerdict()})

	results := runner.Run(context.Background(), urls)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// No dedup, no cache: the same URL is fetched and scored again.
	if len(fetcher.calls) != 2 {
		t.Errorf("fetcher called %d times, want 2", len(fetcher.calls))
	}
}

type metaStub struct{ calls int }

func (m *metaStub) Extract(rawURL, html string) *models.PageMeta {
	m.calls++
	return &models.PageMeta{Title: fmt.Sprintf("page %d", m.calls)}
}

func TestRun_MetaAttachedOnSuccessOnly(t *testing.T) {
	urls := []string{"https://a.example", "https://b.example"}
	fetcher := &fakeFetcher{failFor: map[string]error{"https://b.example": errors.New("down")}}
	meta := &metaStub{}
	runner := NewRunner(fetcher, &fakeScorer{verdict: okVerdict()}, WithMetaExtractor(meta))

	results := runner.Run(context.Background(), urls)

	if results[0].Page == nil || results[0].Page.Title == "" {
		t.Error("results[0].Page missing, want metadata on success")
	}
	if results[1].Page != nil {
		t.Error("results[1].Page set, want nil on error")
	}
	if meta.calls != 1 {
		t.Errorf("meta extractor called %d times, want 1", meta.calls)
	}
}
