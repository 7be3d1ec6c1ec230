// Package workbook handles XLSX intake and export of analysis results.
package workbook

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Thomascampurra78/Seo-geo-Toc/internal/common"
	"github.com/Thomascampurra78/Seo-geo-Toc/models"
)

// exportHeaders is the fixed result column layout. The first column must
// stay URL so an exported workbook can be re-imported as intake.
var exportHeaders = []string{
	"URL",
	"Status",
	"Missing ToC",
	"Deep-Linkable Anchors",
	"Natural Language Headings",
	"High Info Density",
	"Semantic HTML",
	"Summary",
	"Error",
}

// ExportFileName returns the dated default workbook name.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("seo-structure-analysis-%s.xlsx", now.Format("2006-01-02"))
}

// Export writes one row per result to a new workbook at path.
func Export(results []models.AnalysisResult, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &exportHeaders); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(sheet, "A1", lastCol, style)
	}

	for i, r := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell for row %d: %w", i+2, err)
		}
		row := []interface{}{
			r.URL,
			string(r.Status),
			yesNo(r, r.Verdict.MissingToC),
			yesNo(r, r.Verdict.DeepLinkableAnchors),
			yesNo(r, r.Verdict.NaturalLanguageHeadings),
			yesNo(r, r.Verdict.HighInformationDensity),
			yesNo(r, r.Verdict.SemanticHTML),
			r.Verdict.Summary,
			r.Error,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(filepath.Clean(path)); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// yesNo renders a criterion cell. Criteria are only meaningful on
// successful records; everything else exports empty.
func yesNo(r models.AnalysisResult, v bool) string {
	if r.Status != models.StatusSuccess {
		return ""
	}
	if v {
		return "Yes"
	}
	return "No"
}

// ImportURLs reads candidate URLs from the first sheet of a workbook.
// It uses the column whose header is named URL (case-insensitive) and
// falls back to the first column, then keeps only values that look like
// absolute http(s) URLs, preserving row order.
func ImportURLs(path string) ([]string, error) {
	f, err := excelize.OpenFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	colIdx := 0
	startRow := 0
	for i, header := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(header), "URL") {
			colIdx = i
			startRow = 1
			break
		}
	}

	var urls []string
	for _, row := range rows[startRow:] {
		if colIdx >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[colIdx])
		if common.LooksLikeURL(value) {
			urls = append(urls, value)
		}
	}
	return urls, nil
}
