package cmd

import (
	"os"

	"ttylog/internal/config"

	"github.com/spf13/cobra"
)

var (
	flagDataDir string
	flagLogRoot string
)

var rootCmd = &cobra.Command{
	Use:   "ttylog",
	Short: "Record and review shell sessions",
	Long: "ttylog captures interactive shell sessions to disk and turns the raw\n" +
		"transcripts into a queryable log of commands and their output.",
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory (default ~/.ttylog)")
	rootCmd.PersistentFlags().StringVar(&flagLogRoot, "log-root", "", "Capture file directory (default <data-dir>/logs)")
}

// loadSetup resolves config and paths once per command; every component
// receives them explicitly.
func loadSetup() (config.Config, config.Paths, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, config.Paths{}, err
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	if flagLogRoot != "" {
		cfg.General.LogRoot = flagLogRoot
	}
	return cfg, config.ResolvePaths(cfg), nil
}

func homeDir() string {
	home, _ := os.UserHomeDir()
	return home
}
