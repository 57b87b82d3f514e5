// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/naka-gawa/repo-metrics/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "repo-metrics",
	Short: "A CLI tool to chart the activity of a GitHub repository.",
	Long: `repo-metrics fetches commits, contributors, pull requests, issues, comments,
events, languages, traffic and license information of a single GitHub repository
and renders them as charts, either as a standalone report or as a web dashboard.

The repository and credential are read from GITHUB_OWNER, GITHUB_REPO and
GITHUB_TOKEN, optionally loaded from a .env file.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Persistent flags shared by every command.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to an optional .env file")
	rootCmd.PersistentFlags().StringP("owner", "o", "", "Repository owner (overrides GITHUB_OWNER)")
	rootCmd.PersistentFlags().StringP("repo", "r", "", "Repository name (overrides GITHUB_REPO)")
	rootCmd.PersistentFlags().Int("max-pages", -1, "Pages to follow per collection, 0 for all (overrides REPO_METRICS_MAX_PAGES)")
	rootCmd.PersistentFlags().Int("top", 0, "Number of top contributors to rank (overrides REPO_METRICS_TOP)")
}

// newLogger discards everything below warnings unless verbose is set.
func newLogger(cmd *cobra.Command) *logrus.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// loadConfig builds the run configuration from the environment and flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, err
	}

	if owner, _ := cmd.Flags().GetString("owner"); owner != "" {
		cfg.Owner = owner
	}
	if repo, _ := cmd.Flags().GetString("repo"); repo != "" {
		cfg.Repo = repo
	}
	if maxPages, _ := cmd.Flags().GetInt("max-pages"); maxPages >= 0 {
		cfg.MaxPages = maxPages
	}
	if top, _ := cmd.Flags().GetInt("top"); top > 0 {
		cfg.TopN = top
	}
	if cmd.Flags().Lookup("concurrency") != nil {
		if n, _ := cmd.Flags().GetInt("concurrency"); n > 0 {
			cfg.Concurrency = n
		}
	}
	if cmd.Flags().Lookup("addr") != nil && cmd.Flags().Changed("addr") {
		cfg.Addr, _ = cmd.Flags().GetString("addr")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// fatal prints an error and exits, as every command does on failure.
func fatal(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
	os.Exit(1)
}
