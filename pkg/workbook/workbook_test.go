package workbook

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Thomascampurra78/Seo-geo-Toc/models"
)

func sampleResults() []models.AnalysisResult {
	return []models.AnalysisResult{
		{
			URL:    "https://a.example",
			Status: models.StatusSuccess,
			Verdict: models.Verdict{
				MissingToC:              true,
				DeepLinkableAnchors:     false,
				NaturalLanguageHeadings: true,
				HighInformationDensity:  false,
				SemanticHTML:            true,
				Summary:                 "decent structure",
			},
		},
		{
			URL:    "https://b.example",
			Status: models.StatusError,
			Error:  "content retrieval failed: 404",
		},
	}
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2026, 8, 23, 15, 4, 5, 0, time.UTC)
	want := "seo-structure-analysis-2026-08-23.xlsx"
	if got := ExportFileName(now); got != want {
		t.Errorf("ExportFileName() = %q, want %q", got, want)
	}
}

func TestExport_CellContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := Export(sampleResults(), path); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetList()[0])
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 (header + 2 results)", len(rows))
	}
	if !reflect.DeepEqual(rows[0], exportHeaders) {
		t.Errorf("header row = %v, want %v", rows[0], exportHeaders)
	}

	success := rows[1]
	if success[0] != "https://a.example" || success[1] != "success" {
		t.Errorf("success row start = %v, want URL + success", success[:2])
	}
	wantCells := []string{"Yes", "No", "Yes", "No", "Yes"}
	if !reflect.DeepEqual(success[2:7], wantCells) {
		t.Errorf("criteria cells = %v, want %v", success[2:7], wantCells)
	}
	if success[7] != "decent structure" {
		t.Errorf("summary cell = %q, want %q", success[7], "decent structure")
	}

	failed := rows[2]
	if failed[1] != "error" {
		t.Errorf("failed row status = %q, want error", failed[1])
	}
	// Criteria are blank on error rows, so the trailing error message is
	// the last populated cell.
	if got := failed[len(failed)-1]; got != "content retrieval failed: 404" {
		t.Errorf("error cell = %q, want the failure message", got)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.xlsx")
	results := sampleResults()
	if err := Export(results, path); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	urls, err := ImportURLs(path)
	if err != nil {
		t.Fatalf("ImportURLs() error = %v", err)
	}

	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("round-trip URLs = %v, want %v", urls, want)
	}
}

func TestImportURLs_NamedColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "named.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetSheetRow(sheet, "A1", &[]interface{}{"Notes", "URL"})
	f.SetSheetRow(sheet, "A2", &[]interface{}{"first", "https://a.example"})
	f.SetSheetRow(sheet, "A3", &[]interface{}{"not a url here", "https://b.example"})
	f.SetSheetRow(sheet, "A4", &[]interface{}{"", "ftp://skip.example"})
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}
	f.Close()

	urls, err := ImportURLs(path)
	if err != nil {
		t.Fatalf("ImportURLs() error = %v", err)
	}

	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("ImportURLs() = %v, want %v", urls, want)
	}
}

func TestImportURLs_UnnamedFirstColumnFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unnamed.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetSheetRow(sheet, "A1", &[]interface{}{"https://c.example"})
	f.SetSheetRow(sheet, "A2", &[]interface{}{"https://c.example/page"})
	f.SetSheetRow(sheet, "A3", &[]interface{}{"notes row, not a link"})
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}
	f.Close()

	urls, err := ImportURLs(path)
	if err != nil {
		t.Fatalf("ImportURLs() error = %v", err)
	}

	want := []string{"https://c.example", "https://c.example/page"}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("ImportURLs() = %v, want %v", urls, want)
	}
}

func TestImportURLs_MissingFile(t *testing.T) {
	if _, err := ImportURLs(filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Error("ImportURLs() error = nil, want open failure")
	}
}
