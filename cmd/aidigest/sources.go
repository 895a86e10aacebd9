package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deusflow/aidigest/internal/config"
	"github.com/deusflow/aidigest/internal/rss"
)

var sourcesCommand = &cobra.Command{
	Use:   "sources",
	Short: "List the configured feeds and topic keywords",
	Args:  cobra.NoArgs,
	RunE:  listSourcesCmd,
}

var sourcesPath string

func init() {
	sourcesCommand.Flags().StringVar(&sourcesPath, "sources", "", "Path to the sources YAML (defaults to SOURCES_CONFIG_PATH)")
	rootCmd.AddCommand(sourcesCommand)
}

func listSourcesCmd(cmd *cobra.Command, _ []string) error {
	path := sourcesPath
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		path = cfg.SourcesConfigPath
	}

	feeds, err := rss.LoadFeeds(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Sources (%d):\n", len(feeds.Sources))
	for _, s := range feeds.Sources {
		fmt.Fprintf(out, "  %-32s %s\n", s.Name, s.URL)
	}
	fmt.Fprintf(out, "\nAI keywords: %s\n", strings.Join(feeds.Topics.AI, ", "))
	fmt.Fprintf(out, "Accessibility keywords: %s\n", strings.Join(feeds.Topics.Accessibility, ", "))
	return nil
}
