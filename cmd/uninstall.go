package cmd

import (
	"fmt"

	"ttylog/internal/installer"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the ttylog activation snippet from all shells",
	RunE:  runUninstall,
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(_ *cobra.Command, _ []string) error {
	removed, err := installer.Uninstall(homeDir())
	if err != nil {
		return err
	}

	if len(removed) == 0 {
		fmt.Println("Snippet not found; nothing changed.")
		return nil
	}
	for _, path := range removed {
		fmt.Printf("Removed snippet from %s.\n", path)
	}
	return nil
}
