// Package doctor verifies a ttylog installation end to end.
package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"ttylog/internal/config"
	"ttylog/internal/session"
	"ttylog/internal/shell"
	"ttylog/internal/store"
)

// Check is one health-check outcome.
type Check struct {
	Description string
	OK          bool
	Detail      string
}

// Report holds every check from one doctor run.
type Report struct {
	Checks []Check
}

// Passed counts the checks that succeeded.
func (r Report) Passed() int {
	n := 0
	for _, c := range r.Checks {
		if c.OK {
			n++
		}
	}
	return n
}

// Healthy reports whether every check passed.
func (r Report) Healthy() bool {
	return r.Passed() == len(r.Checks)
}

// Run executes all installation checks. shellOverride comes from the config
// file; home is the directory holding the rc files.
func Run(paths config.Paths, home, shellOverride string) Report {
	var r Report
	r.Checks = append(r.Checks,
		checkLogDir(paths),
		checkSnippet(home, shellOverride),
		checkHook(home, shellOverride),
		checkShell(shellOverride),
		checkScriptBinary(),
		checkLatestLog(paths),
		checkDatabase(paths),
	)
	return r
}

func checkLogDir(paths config.Paths) Check {
	_, err := os.Stat(paths.LogRoot)
	return Check{
		Description: "Log directory exists",
		OK:          err == nil,
		Detail:      paths.LogRoot,
	}
}

func checkSnippet(home, override string) Check {
	desc := "Activation snippet present"
	kind, ok := shell.Detect(override)
	if !ok {
		return Check{Description: desc, OK: false, Detail: "unsupported or undetected shell"}
	}

	rcPath := kind.RCPath(home)
	content, err := os.ReadFile(rcPath)
	if err != nil {
		return Check{Description: desc, OK: false, Detail: fmt.Sprintf("cannot read %s: %v", rcPath, err)}
	}

	text := string(content)
	present := strings.Contains(text, shell.StartMarker) && strings.Contains(text, shell.EndMarker)
	detail := "markers missing in " + rcPath
	if present {
		detail = "markers found in " + rcPath
	}
	return Check{Description: desc, OK: present, Detail: detail}
}

func checkHook(home, override string) Check {
	desc := "Prompt hook configured"
	kind, ok := shell.Detect(override)
	if !ok {
		return Check{Description: desc, OK: false, Detail: "unsupported or undetected shell"}
	}

	rcPath := kind.RCPath(home)
	content, err := os.ReadFile(rcPath)
	if err != nil {
		return Check{Description: desc, OK: false, Detail: fmt.Sprintf("cannot read %s: %v", rcPath, err)}
	}

	marker := kind.HookMarker()
	if strings.Contains(string(content), marker) {
		return Check{Description: desc, OK: true, Detail: marker + " found in " + rcPath}
	}
	return Check{Description: desc, OK: false, Detail: marker + " missing in " + rcPath}
}

func checkShell(override string) Check {
	desc := "Supported shell detected (bash, zsh, fish)"
	if kind, ok := shell.Detect(override); ok {
		return Check{Description: desc, OK: true, Detail: kind.String()}
	}
	detail := os.Getenv("SHELL")
	if detail == "" {
		detail = "SHELL environment variable not set"
	}
	return Check{Description: desc, OK: false, Detail: detail}
}

func checkScriptBinary() Check {
	desc := "`script` binary available"
	if path, err := exec.LookPath("script"); err == nil {
		return Check{Description: desc, OK: true, Detail: path}
	}
	return Check{Description: desc, OK: false, Detail: "not found in PATH"}
}

func checkLatestLog(paths config.Paths) Check {
	desc := "Recent capture file exists"
	latest, err := session.Latest(paths)
	if err != nil {
		return Check{Description: desc, OK: false, Detail: err.Error()}
	}
	if latest == nil {
		return Check{Description: desc, OK: false, Detail: "no sessions recorded yet"}
	}

	info, err := os.Stat(latest.Path)
	if err != nil {
		return Check{Description: desc, OK: false, Detail: err.Error()}
	}
	return Check{
		Description: desc,
		OK:          info.Size() > 0,
		Detail:      fmt.Sprintf("%s (%d bytes)", latest.Name, info.Size()),
	}
}

func checkDatabase(paths config.Paths) Check {
	desc := "Structured store reachable"
	db, err := store.Open(paths.DBPath)
	if err != nil {
		return Check{Description: desc, OK: false, Detail: err.Error()}
	}
	defer db.Close()

	if _, err := db.Count(); err != nil {
		return Check{Description: desc, OK: false, Detail: err.Error()}
	}
	return Check{Description: desc, OK: true, Detail: paths.DBPath}
}
