package cmd

import (
	"fmt"
	"os"
	"strconv"

	"ttylog/internal/session"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Display a recorded session by its numeric id",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Display the most recent session",
	RunE:  runLast,
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(lastCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	_, paths, err := loadSetup()
	if err != nil {
		return err
	}

	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("session id must be an integer, got %q", args[0])
	}

	files, err := session.Scan(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No sessions recorded yet.")
		return nil
	}
	if idx < 1 || idx > len(files) {
		return fmt.Errorf("session id must be between 1 and %d", len(files))
	}

	f := files[idx-1]
	fmt.Printf("Showing session %d: %s\n\n", idx, f.Name)
	return session.Dump(f, os.Stdout)
}

func runLast(_ *cobra.Command, _ []string) error {
	_, paths, err := loadSetup()
	if err != nil {
		return err
	}

	latest, err := session.Latest(paths)
	if err != nil {
		return err
	}
	if latest == nil {
		fmt.Println("No sessions recorded yet.")
		return nil
	}

	fmt.Printf("Showing session: %s\n\n", latest.Name)
	return session.Dump(*latest, os.Stdout)
}
