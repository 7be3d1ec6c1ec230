package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/Thomascampurra78/Seo-geo-Toc/internal/common"
	"github.com/Thomascampurra78/Seo-geo-Toc/models"
	"github.com/Thomascampurra78/Seo-geo-Toc/pkg/db"
	"github.com/Thomascampurra78/Seo-geo-Toc/pkg/fetcher"
	"github.com/Thomascampurra78/Seo-geo-Toc/pkg/pagemeta"
	"github.com/Thomascampurra78/Seo-geo-Toc/pkg/pipeline"
	"github.com/Thomascampurra78/Seo-geo-Toc/pkg/scorer"
	"github.com/Thomascampurra78/Seo-geo-Toc/pkg/workbook"
)

// AnalyzeAction runs the full pipeline: gather URLs, fetch and score each
// one in order, record the run, and export a workbook.
func AnalyzeAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to load config: %v", err), 2)
	}
	if model := c.String("model"); model != "" {
		cfg.Model = model
	}
	if outputDir := c.String("output-dir"); outputDir != "" {
		cfg.OutputDir = outputDir
	}

	// .env is optional; the variable may already be in the environment.
	_ = godotenv.Load()
	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return cli.Exit(fmt.Sprintf("missing API key: set %s", cfg.APIKeyEnv), 2)
	}

	rawURLs, err := gatherURLs(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	urls, invalid := common.SanitizeAndValidateURLs(rawURLs)
	if len(invalid) > 0 {
		return cli.Exit(fmt.Sprintf("invalid URLs, nothing analyzed:\n  %s",
			strings.Join(invalid, "\n  ")), 1)
	}
	if len(urls) == 0 {
		return cli.Exit("no URLs provided: use --urls, --file, or --workbook", 1)
	}

	ctx := context.Background()

	fetchOpts := []fetcher.Option{fetcher.WithTimeout(cfg.FetchTimeout())}
	if cfg.ProxyURL != "" {
		fetchOpts = append(fetchOpts, fetcher.WithProxy(cfg.ProxyURL))
	}
	pageFetcher := fetcher.NewFetcher(fetchOpts...)

	pageScorer, err := scorer.NewGeminiScorer(ctx, apiKey, cfg.Model, cfg.MaxContentChars)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to create scoring client: %v", err), 2)
	}

	logger.Info("Starting analysis run", "url_count", len(urls), "model", cfg.Model)

	runner := pipeline.NewRunner(pageFetcher, pageScorer,
		pipeline.WithMetaExtractor(pagemeta.NewExtractor()),
		pipeline.WithLogger(logger),
		pipeline.WithObserver(progressPrinter(c.Bool("quiet"))),
	)
	results := runner.Run(ctx, urls)

	successCount, failedCount := tally(results)
	logger.Info("Analysis run finished",
		"url_count", len(results), "success", successCount, "failed", failedCount)

	exportPath := ""
	if !c.Bool("no-export") {
		exportPath = filepath.Join(cfg.OutputDir, workbook.ExportFileName(time.Now()))
		if err := workbook.Export(results, exportPath); err != nil {
			logger.Error("Failed to export workbook", "path", exportPath, "error", err)
			exportPath = ""
		} else {
			fmt.Printf("Exported results to %s\n", exportPath)
		}
	}

	// History is best effort: a broken database must not discard the
	// run's output.
	if err := recordRun(cfg, results, successCount, failedCount, exportPath); err != nil {
		logger.Error("Failed to record run history", "error", err)
	}

	if failedCount == len(results) {
		return cli.Exit(fmt.Sprintf("all %d URLs failed", failedCount), 2)
	}
	if failedCount > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d URLs failed", failedCount, len(results)), 1)
	}
	return nil
}

// ImportAction prints the URLs found in a workbook without analyzing them.
func ImportAction(c *cli.Context) error {
	path := c.String("workbook")
	if path == "" {
		return fmt.Errorf("no workbook provided via --workbook flag")
	}

	urls, err := workbook.ImportURLs(path)
	if err != nil {
		return fmt.Errorf("failed to import workbook: %w", err)
	}
	if len(urls) == 0 {
		fmt.Println("No URLs found in workbook")
		return nil
	}

	for _, u := range urls {
		fmt.Println(u)
	}
	fmt.Fprintf(os.Stderr, "\nTotal: %d URLs\n", len(urls))
	return nil
}

// gatherURLs merges the three intake sources in flag order: --urls,
// --file, --workbook. Duplicates are kept.
func gatherURLs(c *cli.Context) ([]string, error) {
	var urls []string

	if urlsStr := c.String("urls"); urlsStr != "" {
		for _, u := range strings.Split(urlsStr, ",") {
			if trimmed := strings.TrimSpace(u); trimmed != "" {
				urls = append(urls, trimmed)
			}
		}
	}

	if path := c.String("file"); path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("failed to read URL file: %w", err)
		}
		urls = append(urls, common.SplitURLList(string(data))...)
	}

	if path := c.String("workbook"); path != "" {
		imported, err := workbook.ImportURLs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to import workbook: %w", err)
		}
		urls = append(urls, imported...)
	}

	return urls, nil
}

// progressPrinter renders one line per completed URL to stdout. The
// initial all-pending snapshot only reports the total.
func progressPrinter(quiet bool) pipeline.Observer {
	if quiet {
		return func([]models.AnalysisResult) {}
	}
	return func(snapshot []models.AnalysisResult) {
		done := 0
		var last *models.AnalysisResult
		for i := range snapshot {
			if snapshot[i].Status != models.StatusPending {
				done++
				last = &snapshot[i]
			}
		}
		if done == 0 {
			fmt.Printf("Queued %d URLs\n", len(snapshot))
			return
		}
		if last.Status == models.StatusError {
			fmt.Printf("[%d/%d] error   %s (%s)\n", done, len(snapshot), last.URL, last.Error)
			return
		}
		fmt.Printf("[%d/%d] success %s\n", done, len(snapshot), last.URL)
	}
}

func tally(results []models.AnalysisResult) (successCount, failedCount int) {
	for _, r := range results {
		if r.Status == models.StatusSuccess {
			successCount++
		} else {
			failedCount++
		}
	}
	return successCount, failedCount
}

func recordRun(cfg *models.Config, results []models.AnalysisResult, successCount, failedCount int, exportPath string) error {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := database.InsertRun(len(results), cfg.Model)
	if err != nil {
		return err
	}
	for i, r := range results {
		if err := database.InsertRunResult(runID, i, r); err != nil {
			return err
		}
	}
	if err := database.UpdateRunStats(runID, successCount, failedCount); err != nil {
		return err
	}
	if exportPath != "" {
		if err := database.UpdateRunExportPath(runID, exportPath); err != nil {
			return err
		}
	}
	return nil
}
