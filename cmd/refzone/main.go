// Package main provides the refzone CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/matsen/refzone/internal/config"
	"github.com/matsen/refzone/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	configPath  string
	logLevel    string
	logFormat   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refzone",
	Short: "Align document references with their structured records",
	Long: `refzone reconciles the raw text of a scholarly document with the
structured (TEI) bibliographic records extracted from it.

It locates the reference section in the raw lines, links each line to the
record it belongs to, and resolves records against a bibliographic search
service, writing the identifiers of validated hits back into the TEI.

All commands output JSON by default. Use --human for readable output.

Environment Variables:
  ISTEX_TOKEN          Bearer token for the ISTEX API
  OPENSEARCH_URL       Comma-separated OpenSearch addresses
  OPENSEARCH_PASSWORD  OpenSearch password`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for ISTEX_TOKEN)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/refzone/config.yml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (json, console)")
	rootCmd.Version = Version
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	return cfg
}

// mustLogger builds the logger described by cfg, exits on error.
func mustLogger(cfg *config.Config) *zap.Logger {
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return logger
}
