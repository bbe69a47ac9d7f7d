package main

import (
	"fmt"

	"github.com/matsen/refzone/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long: `Inspect the effective configuration.

Usage:
  refzone config show           # Show the effective config (secrets redacted)
  refzone config path           # Show the default config file path`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := redacted(mustLoadConfig())
		data, err := yaml.Marshal(cfg)
		if err != nil {
			exitWithError(ExitError, "encoding config: %v", err)
		}
		if humanOutput {
			fmt.Print(string(data))
			return
		}
		// Round-trip through YAML so JSON keys match the file.
		var tree map[string]any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			exitWithError(ExitError, "encoding config: %v", err)
		}
		outputJSON(tree)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the default config file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		if humanOutput {
			fmt.Println(path)
			return
		}
		outputJSON(map[string]string{"path": path})
	},
}

const redactedValue = "********"

// redacted returns a copy of cfg with secrets masked.
func redacted(cfg *config.Config) *config.Config {
	c := *cfg
	if c.Search.Token != "" {
		c.Search.Token = redactedValue
	}
	if c.Search.OpenSearch.Password != "" {
		c.Search.OpenSearch.Password = redactedValue
	}
	return &c
}
