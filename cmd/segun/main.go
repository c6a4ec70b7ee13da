// Package main is the entry point for the segun CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AbokiLearn/segun/internal/config"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segun",
		Short: "Segun course question-answering service",
		Long: `Segun answers student questions about the AbokiLearn JavaScript course.
It retrieves relevant lecture chunks with vector search and synthesizes
answers with an LLM, served over HTTP and Telegram.`,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(seedCmd())
	cmd.AddCommand(downloadModelCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from a .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
