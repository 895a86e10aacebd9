package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deusflow/aidigest/internal/app"
	"github.com/deusflow/aidigest/internal/config"
	"github.com/deusflow/aidigest/internal/logger"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Collect, filter, summarize and email one digest",
	Long: `Runs one pass of the digest: fetch every source, keep recent unique articles, filter them by topic, summarize with Gemini (or fall back to a plain listing) and email the result.

Settings come from the environment (and .env). Flags override them for this run.`,
	Args: cobra.NoArgs,
	RunE: runDigestCmd,
}

var (
	runDryRun      bool
	runSourcesPath string
	runWindowDays  int
)

func init() {
	runCommand.Flags().BoolVar(&runDryRun, "dry-run", false, "Print the email to stdout instead of sending it")
	runCommand.Flags().StringVar(&runSourcesPath, "sources", "", "Path to the sources YAML (defaults to SOURCES_CONFIG_PATH)")
	runCommand.Flags().IntVar(&runWindowDays, "window-days", 0, "Relevance window in days (defaults to WINDOW_DAYS)")

	rootCmd.AddCommand(runCommand)
}

func runDigestCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if runSourcesPath != "" {
		cfg.SourcesConfigPath = runSourcesPath
	}
	if runWindowDays != 0 {
		cfg.WindowDays = runWindowDays
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger.Init(cfg.Debug, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = app.Run(ctx, cfg, app.RunOptions{DryRun: runDryRun, Out: cmd.OutOrStdout()})
	return err
}
