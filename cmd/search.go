package cmd

import (
	"fmt"
	"time"

	"ttylog/internal/cli"
	"ttylog/internal/config"
	"ttylog/internal/session"
	"ttylog/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagSearchAfter   string
	flagSearchBefore  string
	flagSearchSession string
	flagSearchRaw     bool
	flagSearchLimit   int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search recorded commands and output",
	Long: "Search the structured store for entries whose command or output contains\n" +
		"the query (case-sensitive). With --raw, grep the raw capture files instead.",
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&flagSearchAfter, "after", "", "Inclusive lower timestamp bound (YYYY-MM-DD or full timestamp)")
	searchCmd.Flags().StringVar(&flagSearchBefore, "before", "", "Inclusive upper timestamp bound (YYYY-MM-DD or full timestamp)")
	searchCmd.Flags().StringVarP(&flagSearchSession, "session", "s", "", "Exact session identity")
	searchCmd.Flags().BoolVar(&flagSearchRaw, "raw", false, "Search raw capture files instead of the store")
	searchCmd.Flags().IntVarP(&flagSearchLimit, "limit", "l", 0, "Limit the number of rows shown (0 = all)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(_ *cobra.Command, args []string) error {
	_, paths, err := loadSetup()
	if err != nil {
		return err
	}

	text := ""
	if len(args) == 1 {
		text = args[0]
	}

	if flagSearchRaw {
		return searchRaw(paths, text)
	}

	q := store.Query{Text: text, Session: flagSearchSession}
	if q.After, err = parseBound(flagSearchAfter, false); err != nil {
		return err
	}
	if q.Before, err = parseBound(flagSearchBefore, true); err != nil {
		return err
	}

	db, err := store.Open(paths.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.Search(q)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No matching entries.")
		return nil
	}
	if flagSearchLimit > 0 && len(entries) > flagSearchLimit {
		entries = entries[:flagSearchLimit]
	}

	t := cli.Table{Headers: []string{"Timestamp", "Command", "Output", "Session"}}
	for _, e := range entries {
		t.Rows = append(t.Rows, []string{
			cli.FormatTime(e.TS),
			cli.Truncate(e.Command, 48),
			cli.Truncate(e.Output, 48),
			e.Session,
		})
	}
	fmt.Print(cli.RenderTable(t))
	return nil
}

func searchRaw(paths config.Paths, keyword string) error {
	if keyword == "" {
		return fmt.Errorf("raw search needs a keyword")
	}

	matches, err := session.SearchRaw(paths, keyword, func(f session.CaptureFile, err error) {
		fmt.Printf("Failed to read %s: %v\n", f.Name, err)
	})
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Printf("No matches for %q.\n", keyword)
		return nil
	}
	for _, m := range matches {
		fmt.Printf("%s: %s\n", m.File.Name, m.Line)
	}
	return nil
}

// parseBound accepts a bare date or a full timestamp. A bare date used as an
// upper bound extends to the end of that day so --before is inclusive.
func parseBound(value string, upper bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if ts, err := time.ParseInLocation(store.TimeLayout, value, time.Local); err == nil {
		return ts, nil
	}
	ts, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q (want YYYY-MM-DD or %s)", value, store.TimeLayout)
	}
	if upper {
		ts = ts.Add(24*time.Hour - time.Second)
	}
	return ts, nil
}
