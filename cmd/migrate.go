package cmd

import (
	"fmt"

	"ttylog/internal/cli"
	"ttylog/internal/migrate"

	"github.com/spf13/cobra"
)

var flagMigrateReset bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import raw capture files into the structured store",
	Long: "Parse every capture file under the log root and bulk-load the results.\n" +
		"Without --reset, re-importing the same files duplicates their rows;\n" +
		"use --reset for a reproducible full rebuild.",
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&flagMigrateReset, "reset", false, "Drop and recreate the logs table before importing")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	_, paths, err := loadSetup()
	if err != nil {
		return err
	}

	summary, err := migrate.Run(paths, flagMigrateReset)
	if err != nil {
		return err
	}

	for _, skipped := range summary.Skipped {
		fmt.Printf("Skipped %s: %v\n", skipped.Name, skipped.Err)
	}
	fmt.Printf("Migration complete. Imported %s commands from %d session logs into %s.\n",
		cli.FormatNumber(summary.Entries), summary.Sessions, paths.DBPath)
	return nil
}
