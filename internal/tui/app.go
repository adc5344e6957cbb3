// Package tui provides the interactive Bubble Tea browser for the
// structured log store.
package tui

import (
	"fmt"
	"strings"

	"ttylog/internal/cli"
	"ttylog/internal/config"
	"ttylog/internal/store"
	"ttylog/internal/tui/theme"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// entriesLoadedMsg is sent when the store read finishes.
type entriesLoadedMsg struct {
	entries []store.Entry
	err     error
}

// exportDoneMsg reports the outcome of a CSV export.
type exportDoneMsg struct {
	path string
	rows int
	err  error
}

// Input prompt modes.
const (
	promptNone = iota
	promptSearch
	promptDate
)

// App is the root Bubble Tea model.
type App struct {
	paths config.Paths

	entries  []store.Entry
	filtered []store.Entry
	loaded   bool

	searchTerm string
	dateFilter string

	tbl        table.Model
	input      textinput.Model
	promptMode int

	detail     viewport.Model
	showDetail bool

	status string
	width  int
	height int
}

// NewApp builds the browser for the given paths.
func NewApp(paths config.Paths) App {
	t := theme.Active

	columns := []table.Column{
		{Title: "Timestamp", Width: 19},
		{Title: "Command", Width: 40},
		{Title: "Output", Width: 40},
		{Title: "Session", Width: 30},
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		Foreground(t.Accent).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true)
	styles.Selected = styles.Selected.
		Foreground(t.TextPrimary).
		Background(t.SurfaceHover).
		Bold(false)
	tbl.SetStyles(styles)

	input := textinput.New()
	input.Prompt = "› "
	input.CharLimit = 200

	return App{
		paths:  paths,
		tbl:    tbl,
		input:  input,
		detail: viewport.New(80, 20),
		status: "Loading…",
	}
}

// Init starts the initial store read.
func (a App) Init() tea.Cmd {
	return a.loadEntries
}

func (a App) loadEntries() tea.Msg {
	db, err := store.Open(a.paths.DBPath)
	if err != nil {
		return entriesLoadedMsg{err: err}
	}
	defer db.Close()

	entries, err := db.FetchAll()
	return entriesLoadedMsg{entries: entries, err: err}
}

// Update handles messages.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case entriesLoadedMsg:
		a.loaded = true
		if msg.err != nil {
			a.status = "Load failed: " + msg.err.Error()
			return a, nil
		}
		a.entries = msg.entries
		a.applyFilters()
		a.status = fmt.Sprintf("Loaded %s entries", cli.FormatNumber(int64(len(a.entries))))
		return a, nil

	case exportDoneMsg:
		if msg.err != nil {
			a.status = "Export failed: " + msg.err.Error()
		} else {
			a.status = fmt.Sprintf("Exported %d rows to %s", msg.rows, msg.path)
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.promptMode != promptNone {
		switch msg.String() {
		case "enter":
			value := strings.TrimSpace(a.input.Value())
			if a.promptMode == promptSearch {
				a.searchTerm = value
			} else {
				a.dateFilter = value
			}
			a.promptMode = promptNone
			a.input.Blur()
			a.applyFilters()
			return a, nil
		case "esc":
			a.promptMode = promptNone
			a.input.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}

	if a.showDetail {
		switch msg.String() {
		case "esc", "b", "q":
			a.showDetail = false
			return a, nil
		}
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "/":
		a.promptMode = promptSearch
		a.input.SetValue(a.searchTerm)
		a.input.Placeholder = "search (blank to clear)"
		return a, a.input.Focus()
	case "d":
		a.promptMode = promptDate
		a.input.SetValue(a.dateFilter)
		a.input.Placeholder = "date prefix YYYY-MM-DD (blank to clear)"
		return a, a.input.Focus()
	case "c":
		a.searchTerm = ""
		a.dateFilter = ""
		a.applyFilters()
		return a, nil
	case "r":
		a.status = "Reloading…"
		return a, a.loadEntries
	case "e":
		return a, a.export
	case "enter":
		if entry, ok := a.currentEntry(); ok {
			a.openDetail(entry)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.tbl, cmd = a.tbl.Update(msg)
	return a, cmd
}

// applyFilters recomputes the visible rows. The browser filter is an
// in-memory case-insensitive match, a UI convenience distinct from the
// store's case-sensitive query contract.
func (a *App) applyFilters() {
	filtered := a.entries
	if a.searchTerm != "" {
		needle := strings.ToLower(a.searchTerm)
		var kept []store.Entry
		for _, e := range filtered {
			if strings.Contains(strings.ToLower(e.Command), needle) ||
				strings.Contains(strings.ToLower(e.Output), needle) {
				kept = append(kept, e)
			}
		}
		filtered = kept
	}
	if a.dateFilter != "" {
		var kept []store.Entry
		for _, e := range filtered {
			if e.HasTS() && strings.HasPrefix(e.TS.Format(cli.DisplayTime), a.dateFilter) {
				kept = append(kept, e)
			}
		}
		filtered = kept
	}
	a.filtered = filtered

	rows := make([]table.Row, 0, len(filtered))
	for _, e := range filtered {
		rows = append(rows, table.Row{
			cli.FormatTime(e.TS),
			cli.Truncate(e.Command, 60),
			cli.Truncate(e.Output, 60),
			e.Session,
		})
	}
	a.tbl.SetRows(rows)
	a.tbl.GotoTop()

	summary := fmt.Sprintf("%d entries", len(filtered))
	if a.searchTerm != "" {
		summary += fmt.Sprintf(" | search=%q", a.searchTerm)
	}
	if a.dateFilter != "" {
		summary += " | date=" + a.dateFilter
	}
	a.status = summary
}

func (a App) currentEntry() (store.Entry, bool) {
	idx := a.tbl.Cursor()
	if idx < 0 || idx >= len(a.filtered) {
		return store.Entry{}, false
	}
	return a.filtered[idx], true
}

func (a *App) openDetail(e store.Entry) {
	output := e.Output
	if output == "" {
		output = "<no output>"
	}
	t := theme.Active
	header := lipgloss.NewStyle().Bold(true).Foreground(t.Accent).Render("Command: ") +
		lipgloss.NewStyle().Foreground(t.TextPrimary).Render(e.Command)
	meta := lipgloss.NewStyle().Foreground(t.TextMuted).
		Render(fmt.Sprintf("%s  %s", cli.FormatTime(e.TS), e.Session))
	a.detail.SetContent(header + "\n" + meta + "\n\n" + output)
	a.detail.GotoTop()
	a.showDetail = true
}

func (a *App) resize() {
	h := a.height - 6
	if h < 3 {
		h = 3
	}
	a.tbl.SetHeight(h)
	a.tbl.SetWidth(a.width)

	sessWidth := 28
	tsWidth := 19
	rest := a.width - tsWidth - sessWidth - 12
	if rest < 20 {
		rest = 20
	}
	a.tbl.SetColumns([]table.Column{
		{Title: "Timestamp", Width: tsWidth},
		{Title: "Command", Width: rest / 2},
		{Title: "Output", Width: rest - rest/2},
		{Title: "Session", Width: sessWidth},
	})

	a.detail.Width = a.width - 4
	a.detail.Height = a.height - 6
}

// View renders the browser.
func (a App) View() string {
	t := theme.Active

	statusBar := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Padding(0, 1).
		Render(a.status)

	help := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Padding(0, 1).
		Render("q quit · / search · d date · c clear · enter detail · e export · r reload")

	if a.showDetail {
		frame := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderAccent).
			Padding(0, 1)
		hint := lipgloss.NewStyle().
			Foreground(t.TextDim).
			Padding(0, 1).
			Render("esc/b back · arrows scroll")
		return frame.Render(a.detail.View()) + "\n" + hint
	}

	var b strings.Builder
	b.WriteString(a.tbl.View())
	b.WriteString("\n")
	if a.promptMode != promptNone {
		b.WriteString(lipgloss.NewStyle().Padding(0, 1).Render(a.input.View()))
	} else {
		b.WriteString(statusBar)
	}
	b.WriteString("\n")
	b.WriteString(help)
	return b.String()
}
