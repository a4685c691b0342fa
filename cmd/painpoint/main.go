package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	logLevel   string
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:     "painpoint",
	Short:   "Find recurring pain points in Reddit posts",
	Version: version,
	Long: `painpoint scores the sentiment of Reddit posts, groups the complaints
they contain into pain points ranked by severity, and extracts the topics
people talk about.

Posts are read as a JSON array or JSON Lines with the fields
id, title, body (or content/selftext), subreddit, score and num_comments.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config file (default $PAINPOINT_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (overrides the config)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colored output")
}

func main() {
	if err := run(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

func run() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("painpoint: %w", err)
	}
	return nil
}
