package db

import (
	"database/sql"
	"fmt"

	"github.com/Thomascampurra78/Seo-geo-Toc/models"
)

// Run is one recorded analysis run.
type Run struct {
	RunID        int64  `yaml:"run_id"`
	CreatedAt    string `yaml:"created_at"`
	URLCount     int    `yaml:"url_count"`
	SuccessCount int    `yaml:"success_count"`
	FailedCount  int    `yaml:"failed_count"`
	Model        string `yaml:"model"`
	ExportPath   string `yaml:"export_path,omitempty"`
}

// RunResult is one analyzed URL within a run, keyed by input position.
type RunResult struct {
	RunID                   int64  `yaml:"run_id"`
	Position                int    `yaml:"position"`
	URL                     string `yaml:"url"`
	Status                  string `yaml:"status"`
	MissingToC              bool   `yaml:"missing_toc"`
	DeepLinkableAnchors     bool   `yaml:"deep_linkable_anchors"`
	NaturalLanguageHeadings bool   `yaml:"natural_language_headings"`
	HighInformationDensity  bool   `yaml:"high_information_density"`
	SemanticHTML            bool   `yaml:"semantic_html"`
	Summary                 string `yaml:"summary,omitempty"`
	ErrorMessage            string `yaml:"error_message,omitempty"`
	PageTitle               string `yaml:"page_title,omitempty"`
	Language                string `yaml:"language,omitempty"`
}

// InsertRun creates a new run row and returns its id.
func (db *DB) InsertRun(urlCount int, model string) (int64, error) {
	result, err := db.Exec(
		"INSERT INTO runs (url_count, model) VALUES (?, ?)",
		urlCount, model,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	return id, nil
}

// InsertRunResult records one analyzed URL for a run.
func (db *DB) InsertRunResult(runID int64, position int, r models.AnalysisResult) error {
	pageTitle := ""
	language := ""
	if r.Page != nil {
		pageTitle = r.Page.Title
		language = r.Page.Language
	}

	_, err := db.Exec(`
		INSERT INTO run_results (
			run_id, position, url, status,
			missing_toc, deep_linkable_anchors, natural_language_headings,
			high_information_density, semantic_html,
			summary, error_message, page_title, language
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, position, r.URL, string(r.Status),
		r.Verdict.MissingToC, r.Verdict.DeepLinkableAnchors, r.Verdict.NaturalLanguageHeadings,
		r.Verdict.HighInformationDensity, r.Verdict.SemanticHTML,
		r.Verdict.Summary, r.Error, pageTitle, language,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run result: %w", err)
	}
	return nil
}

// UpdateRunStats writes the final success/failure tallies for a run.
func (db *DB) UpdateRunStats(runID int64, successCount, failedCount int) error {
	_, err := db.Exec(
		"UPDATE runs SET success_count = ?, failed_count = ? WHERE run_id = ?",
		successCount, failedCount, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run stats: %w", err)
	}
	return nil
}

// UpdateRunExportPath records where the run's workbook was written.
func (db *DB) UpdateRunExportPath(runID int64, exportPath string) error {
	_, err := db.Exec(
		"UPDATE runs SET export_path = ? WHERE run_id = ?",
		exportPath, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run export path: %w", err)
	}
	return nil
}

// GetRunByID retrieves a single run.
func (db *DB) GetRunByID(runID int64) (*Run, error) {
	var run Run
	err := db.QueryRow(`
		SELECT run_id, created_at, url_count, success_count, failed_count, model, export_path
		FROM runs WHERE run_id = ?`, runID,
	).Scan(&run.RunID, &run.CreatedAt, &run.URLCount, &run.SuccessCount,
		&run.FailedCount, &run.Model, &run.ExportPath)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// LatestRunID returns the id of the most recent run, or an error if no
// runs have been recorded yet.
func (db *DB) LatestRunID() (int64, error) {
	var id int64
	err := db.QueryRow("SELECT run_id FROM runs ORDER BY run_id DESC LIMIT 1").Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("no runs recorded")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get latest run: %w", err)
	}
	return id, nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT run_id, created_at, url_count, success_count, failed_count, model, export_path
		FROM runs ORDER BY run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.RunID, &run.CreatedAt, &run.URLCount, &run.SuccessCount,
			&run.FailedCount, &run.Model, &run.ExportPath); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRunResults returns a run's per-URL records in input order.
func (db *DB) GetRunResults(runID int64) ([]RunResult, error) {
	rows, err := db.Query(`
		SELECT run_id, position, url, status,
			missing_toc, deep_linkable_anchors, natural_language_headings,
			high_information_density, semantic_html,
			summary, error_message, page_title, language
		FROM run_results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run results: %w", err)
	}
	defer rows.Close()

	var results []RunResult
	for rows.Next() {
		var r RunResult
		if err := rows.Scan(&r.RunID, &r.Position, &r.URL, &r.Status,
			&r.MissingToC, &r.DeepLinkableAnchors, &r.NaturalLanguageHeadings,
			&r.HighInformationDensity, &r.SemanticHTML,
			&r.Summary, &r.ErrorMessage, &r.PageTitle, &r.Language); err != nil {
			return nil, fmt.Errorf("failed to scan run result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// DeleteAllRuns clears the entire history. Cascades to run_results.
func (db *DB) DeleteAllRuns() (int64, error) {
	result, err := db.Exec("DELETE FROM runs")
	if err != nil {
		return 0, fmt.Errorf("failed to delete runs: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted runs: %w", err)
	}
	return affected, nil
}

// AnalysisResult converts a stored record back into the in-memory form
// used for re-export.
func (r RunResult) AnalysisResult() models.AnalysisResult {
	return models.AnalysisResult{
		URL:    r.URL,
		Status: models.Status(r.Status),
		Verdict: models.Verdict{
			MissingToC:              r.MissingToC,
			DeepLinkableAnchors:     r.DeepLinkableAnchors,
			NaturalLanguageHeadings: r.NaturalLanguageHeadings,
			HighInformationDensity:  r.HighInformationDensity,
			SemanticHTML:            r.SemanticHTML,
			Summary:                 r.Summary,
		},
		Error: r.ErrorMessage,
	}
}
