// Package main is the entry point for the AI & Disability daily digest.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aidigest",
	Short: "AI & Disability daily digest",
	Long:  "aidigest collects recent news from RSS feeds, keeps the articles about both AI and disability or accessibility, summarizes them with Gemini and emails an HTML digest.",
	// Errors are reported once by main.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
