package cmd

import (
	"os"

	"ttylog/internal/recorder"

	"github.com/spf13/cobra"
)

// recordCmd is the hook entry point the shell snippet calls on every prompt.
// Hidden: it is wiring, not user surface.
var recordCmd = &cobra.Command{
	Use:    "_record [line]",
	Short:  "Record one history line (called by the shell hook)",
	Hidden: true,
	Args:   cobra.MaximumNArgs(1),
	RunE:   runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
}

func runRecord(_ *cobra.Command, args []string) error {
	_, paths, err := loadSetup()
	if err != nil {
		return err
	}

	raw := ""
	if len(args) == 1 {
		raw = args[0]
	}

	// The session identity is resolved here, at the outermost layer; the
	// recorder itself never reads the environment.
	return recorder.Record(paths, os.Getenv("TTYLOG_SESSION"), raw)
}
