package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Thomascampurra78/Seo-geo-Toc/internal/analyze"
	"github.com/Thomascampurra78/Seo-geo-Toc/internal/runs"
)

func main() {
	app := &cli.App{
		Name:  "seostruct",
		Usage: "Score web pages against content-structure heuristics with Gemini",
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "Fetch and score a list of URLs, then export the results",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "urls",
						Usage: "Comma-separated list of URLs to analyze",
					},
					&cli.StringFlag{
						Name:  "file",
						Usage: "Path to a text file with one URL per line",
					},
					&cli.StringFlag{
						Name:  "workbook",
						Usage: "Path to an XLSX workbook to import URLs from",
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "Directory for the exported workbook",
					},
					&cli.StringFlag{
						Name:  "config",
						Value: "config.yaml",
						Usage: "Path to the YAML config file",
					},
					&cli.StringFlag{
						Name:  "model",
						Usage: "Gemini model to score with (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "no-export",
						Usage: "Skip writing the results workbook",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Suppress progress output and non-error logs",
					},
				},
				Action: analyze.AnalyzeAction,
			},
			{
				Name:  "import",
				Usage: "Print the URLs found in a workbook without analyzing them",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "workbook",
						Usage:    "Path to the XLSX workbook to read",
						Required: true,
					},
				},
				Action: analyze.ImportAction,
			},
			{
				Name:  "export",
				Usage: "Re-export a recorded run to a workbook",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "run",
						Usage: "Run id to export (defaults to the most recent run)",
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "Directory for the exported workbook",
					},
					&cli.StringFlag{
						Name:  "config",
						Value: "config.yaml",
						Usage: "Path to the YAML config file",
					},
				},
				Action: runs.ExportAction,
			},
			{
				Name:  "runs",
				Usage: "Inspect the recorded run history",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Value: "config.yaml",
						Usage: "Path to the YAML config file",
					},
				},
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List recorded runs, newest first",
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Value: 50,
								Usage: "Maximum number of runs to show",
							},
						},
						Action: runs.ListAction,
					},
					{
						Name:      "show",
						Usage:     "Show one run with its per-URL results",
						ArgsUsage: "[run-id]",
						Action:    runs.ShowAction,
					},
					{
						Name:   "clear",
						Usage:  "Delete the entire run history",
						Action: runs.ClearAction,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
