// Package cli wires the decisiond commands.
package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "decisiond",
	Short: "Project record ingestion and extraction service",
	Long: `decisiond acquires project communications from webhooks, mailboxes
and cloud folders, queues them for admin approval, and extracts
structured project records from approved sources.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(),
		"path to the TOML config file")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "decisiond.toml"
	}
	return filepath.Join(home, ".decisiond", "config.toml")
}
