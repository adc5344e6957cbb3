package cmd

import (
	"fmt"

	"ttylog/internal/config"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

var flagConfigInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigInit, "init", false, "Write a default config file if none exists")
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, paths, err := loadSetup()
	if err != nil {
		return err
	}

	if flagConfigInit {
		if config.Exists() {
			fmt.Printf("Config already exists at %s; nothing written.\n", config.ConfigPath())
		} else {
			if err := config.Save(config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("Wrote default config to %s.\n", config.ConfigPath())
		}
	}

	fmt.Printf("# %s\n", config.ConfigPath())
	out, err := marshalTOML(cfg)
	if err != nil {
		return err
	}
	fmt.Print(out)
	fmt.Printf("\n# resolved paths\n# data dir: %s\n# log root: %s\n# database: %s\n",
		paths.BaseDir, paths.LogRoot, paths.DBPath)
	return nil
}

func marshalTOML(cfg config.Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	return string(data), nil
}
