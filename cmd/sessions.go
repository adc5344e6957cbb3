package cmd

import (
	"fmt"
	"strconv"

	"ttylog/internal/cli"
	"ttylog/internal/session"
	"ttylog/internal/store"

	"github.com/spf13/cobra"
)

var sessionsFromStore bool

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded sessions",
	RunE:  runSessions,
}

func init() {
	sessionsCmd.Flags().BoolVar(&sessionsFromStore, "db", false, "Summarize sessions from the structured store instead of capture files")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(_ *cobra.Command, _ []string) error {
	_, paths, err := loadSetup()
	if err != nil {
		return err
	}

	if sessionsFromStore {
		return listStoreSessions(paths.DBPath)
	}

	files, err := session.Scan(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Printf("No sessions found. Logs directory: %s\n", paths.LogRoot)
		return nil
	}

	t := cli.Table{Headers: []string{"ID", "Timestamp", "File"}}
	for i, f := range files {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i + 1),
			f.Timestamp().Format(cli.DisplayTime),
			f.Name,
		})
	}
	fmt.Print(cli.RenderTable(t))
	return nil
}

func listStoreSessions(dbPath string) error {
	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	summaries, err := db.ListSessions()
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No entries in the structured store. Run `ttylog migrate` to import capture files.")
		return nil
	}

	t := cli.Table{Headers: []string{"Session", "First seen", "Entries"}}
	for _, s := range summaries {
		name := s.Session
		if name == "" {
			name = "<none>"
		}
		t.Rows = append(t.Rows, []string{
			name,
			cli.FormatTime(s.FirstTS),
			cli.FormatNumber(s.Count),
		})
	}
	fmt.Print(cli.RenderTable(t))
	return nil
}
