package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/naka-gawa/repo-metrics/internal/domain"
	"github.com/naka-gawa/repo-metrics/internal/gateway"
	"github.com/naka-gawa/repo-metrics/internal/render"
	"github.com/naka-gawa/repo-metrics/internal/usecase"
	"github.com/pkg/browser"
	"github.com/rcrowley/go-metrics"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Runs every report and writes the charts to a directory",
	Long: `Runs the standard report sequence against the repository: commits, contributors,
code changes, pull requests, issues, comments, events, languages, license and traffic.
Every chart is written as an SVG file next to an index.html; textual results are
also printed to standard output.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)

		cfg, err := loadConfig(cmd)
		if err != nil {
			fatal(os.Stderr, "Error: %v", err)
		}
		only, _ := cmd.Flags().GetStringSlice("only")
		outDir, _ := cmd.Flags().GetString("out")
		open, _ := cmd.Flags().GetBool("open")

		reports, err := usecase.Select(usecase.Catalog(cfg.TopN), only)
		if err != nil {
			fatal(os.Stderr, "Error: %v", err)
		}

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(cfg, logger, metrics.NewRegistry())
		if err != nil {
			fatal(os.Stderr, "Failed to create GitHub gateway: %v", err)
		}
		repo := cfg.Repository()
		runner := usecase.NewRunner(githubGateway, repo, cfg.Concurrency, logger)

		results, err := runner.Run(ctx, reports)
		stats := githubGateway.Stats()
		logger.WithFields(logrus.Fields{
			"requests": stats.Requests,
			"errors":   stats.Errors,
			"mean":     stats.MeanLatency,
			"max":      stats.MaxLatency,
		}).Debug("GitHub requests issued.")
		if err != nil {
			fatal(os.Stderr, "Failed to run reports: %v", err)
		}

		index, err := writeReport(results, repo, outDir, time.Now(), os.Stdout)
		if err != nil {
			fatal(os.Stderr, "Failed to write report: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", index)

		if open {
			if err := browser.OpenFile(index); err != nil {
				fatal(os.Stderr, "Failed to open %s: %v", index, err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringSlice("only", nil, "Run only the named reports (comma separated)")
	reportCmd.Flags().String("out", "report", "Directory to write the charts and index.html into")
	reportCmd.Flags().Bool("open", false, "Open the generated index.html in the browser")
	reportCmd.Flags().Int("concurrency", 0, "Reports to run at once (overrides REPO_METRICS_CONCURRENCY)")
}

// writeReport writes one SVG per chart and an index.html listing every result
// into outDir, and prints textual results to stdout. It returns the path of
// the index.
func writeReport(results []*domain.Result, repo domain.Repository, outDir string, now time.Time, stdout io.Writer) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	data := render.IndexData{Repository: repo.FullName(), Generated: now}
	for _, res := range results {
		item := render.IndexItem{Title: res.Title}
		svg, err := render.SVG(res)
		switch {
		case err == nil:
			item.File = res.Name + ".svg"
			if err := os.WriteFile(filepath.Join(outDir, item.File), svg, 0o644); err != nil {
				return "", fmt.Errorf("write %s: %w", item.File, err)
			}
		case errors.Is(err, render.ErrNoChart):
			item.Lines = res.Lines
			for _, line := range res.Lines {
				fmt.Fprintln(stdout, line)
			}
		case errors.Is(err, render.ErrNoData):
			item.Note = "No data."
		default:
			return "", err
		}
		data.Items = append(data.Items, item)
	}

	index := filepath.Join(outDir, "index.html")
	f, err := os.Create(index)
	if err != nil {
		return "", fmt.Errorf("create index: %w", err)
	}
	defer f.Close()
	if err := render.Page(f, render.PageIndex, data); err != nil {
		return "", err
	}
	return index, nil
}
