package runs

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/Thomascampurra78/Seo-geo-Toc/models"
	"github.com/Thomascampurra78/Seo-geo-Toc/pkg/db"
	"github.com/Thomascampurra78/Seo-geo-Toc/pkg/workbook"
)

func openHistory(c *cli.Context) (*db.DB, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// runIDOrLatest resolves the first positional argument as a run id and
// falls back to the most recent run when none is given.
func runIDOrLatest(c *cli.Context, database *db.DB) (int64, error) {
	arg := c.Args().First()
	if arg == "" {
		return database.LatestRunID()
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid run id %q", arg)
	}
	return id, nil
}

// ListAction prints the run history as a table, newest first.
func ListAction(c *cli.Context) error {
	database, err := openHistory(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	fmt.Printf("%-6s %-20s %-6s %-8s %-8s %-22s %-30s\n",
		"ID", "Created", "URLs", "Success", "Failed", "Model", "Export")
	fmt.Println(strings.Repeat("-", 105))
	for _, r := range runs {
		export := r.ExportPath
		if export == "" {
			export = "(none)"
		}
		fmt.Printf("%-6d %-20s %-6d %-8d %-8d %-22s %-30s\n",
			r.RunID, r.CreatedAt, r.URLCount, r.SuccessCount, r.FailedCount, r.Model, export)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'seostruct runs show <id>' to see per-URL results\n")
	return nil
}

// ShowAction prints one run with its per-URL records as YAML.
func ShowAction(c *cli.Context) error {
	database, err := openHistory(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := runIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRunByID(runID)
	if err != nil {
		return err
	}
	results, err := database.GetRunResults(runID)
	if err != nil {
		return err
	}

	detail := struct {
		Run     *db.Run        `yaml:"run"`
		Results []db.RunResult `yaml:"results"`
	}{Run: run, Results: results}

	out, err := yaml.Marshal(detail)
	if err != nil {
		return fmt.Errorf("failed to marshal run detail: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

// ClearAction deletes the entire run history.
func ClearAction(c *cli.Context) error {
	database, err := openHistory(c)
	if err != nil {
		return err
	}
	defer database.Close()

	deleted, err := database.DeleteAllRuns()
	if err != nil {
		return fmt.Errorf("failed to clear runs: %w", err)
	}
	fmt.Printf("Deleted %d runs\n", deleted)
	return nil
}

// ExportAction re-exports a stored run to a workbook. Without --run it
// exports the most recent run.
func ExportAction(c *cli.Context) error {
	database, err := openHistory(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID := int64(c.Int("run"))
	if runID == 0 {
		runID, err = database.LatestRunID()
		if err != nil {
			return err
		}
	}

	stored, err := database.GetRunResults(runID)
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		return fmt.Errorf("run %d has no results", runID)
	}

	results := make([]models.AnalysisResult, len(stored))
	for i, r := range stored {
		results[i] = r.AnalysisResult()
	}

	outputDir := c.String("output-dir")
	if outputDir == "" {
		outputDir = "."
	}
	path := filepath.Join(outputDir, workbook.ExportFileName(time.Now()))
	if err := workbook.Export(results, path); err != nil {
		return fmt.Errorf("failed to export run %d: %w", runID, err)
	}

	if err := database.UpdateRunExportPath(runID, path); err != nil {
		return fmt.Errorf("failed to record export path: %w", err)
	}

	fmt.Printf("Exported run %d to %s\n", runID, path)
	return nil
}
