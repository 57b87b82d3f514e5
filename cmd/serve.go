package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/naka-gawa/repo-metrics/internal/config"
	"github.com/naka-gawa/repo-metrics/internal/gateway"
	"github.com/naka-gawa/repo-metrics/internal/server"
	"github.com/naka-gawa/repo-metrics/internal/usecase"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the contributors and commits dashboard",
	Long: `Starts a web server with two report pages: /contributors ranks the top
contributors and lists when each was last active, /commits charts the commit
frequency. Every page load fetches fresh data from GitHub.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		logger := newLogger(cmd)

		cfg, err := loadConfig(cmd)
		if err != nil {
			fatal(os.Stderr, "Error: %v", err)
		}

		registry := metrics.NewRegistry()
		githubGateway, err := gateway.NewGitHubGateway(cfg, logger, registry)
		if err != nil {
			fatal(os.Stderr, "Failed to create GitHub gateway: %v", err)
		}
		repo := cfg.Repository()
		dashboard := usecase.NewDashboard(githubGateway, repo, cfg.TopN, logger)

		srv := server.New(repo.FullName(), dashboard, registry, logger)
		logger.Warnf("Serving %s on %s", repo.FullName(), cfg.Addr)
		if err := srv.ListenAndServe(ctx, cfg.Addr); err != nil {
			fatal(os.Stderr, "Server failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", config.DefaultAddr, "Address to listen on")
}
