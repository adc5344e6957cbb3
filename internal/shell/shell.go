// Package shell defines the supported shells and their activation snippets.
package shell

import (
	"os"
	"path/filepath"
	"strings"
)

// Markers delimiting the spliced block in a shell rc file. Matching is done
// on the trimmed line, so indentation around a marker does not break removal.
const (
	StartMarker = "# >>> ttylog start >>>"
	EndMarker   = "# <<< ttylog end <<<"
)

// Kind identifies a supported shell.
type Kind int

const (
	Bash Kind = iota
	Zsh
	Fish
)

// All lists every supported shell.
var All = []Kind{Bash, Zsh, Fish}

func (k Kind) String() string {
	switch k {
	case Bash:
		return "bash"
	case Zsh:
		return "zsh"
	case Fish:
		return "fish"
	}
	return "unknown"
}

// RCPath returns the startup file the activation snippet lives in.
func (k Kind) RCPath(home string) string {
	switch k {
	case Bash:
		return filepath.Join(home, ".bashrc")
	case Zsh:
		return filepath.Join(home, ".zshrc")
	case Fish:
		return filepath.Join(home, ".config", "fish", "config.fish")
	}
	return ""
}

// Snippet returns the activation block for the shell, including both markers.
func (k Kind) Snippet() string {
	switch k {
	case Bash:
		return bashSnippet()
	case Zsh:
		return zshSnippet()
	case Fish:
		return fishSnippet()
	}
	return ""
}

// HookMarker is a string whose presence in the rc file indicates the
// per-prompt recording hook is wired up. Used by doctor checks.
func (k Kind) HookMarker() string {
	switch k {
	case Bash:
		return "TTYLOG_PROMPT_COMMAND"
	case Zsh:
		return "__ttylog_precmd"
	case Fish:
		return "__ttylog_postexec"
	}
	return "ttylog _record"
}

// FromName maps a shell executable name (or path) to a Kind.
func FromName(name string) (Kind, bool) {
	switch strings.ToLower(filepath.Base(name)) {
	case "bash":
		return Bash, true
	case "zsh":
		return Zsh, true
	case "fish":
		return Fish, true
	}
	return 0, false
}

// Detect returns the user's shell. The override argument (from config or the
// TTYLOG_SHELL environment variable) wins over $SHELL.
func Detect(override string) (Kind, bool) {
	if override != "" {
		if k, ok := FromName(override); ok {
			return k, true
		}
	}
	if env := os.Getenv("TTYLOG_SHELL"); env != "" {
		if k, ok := FromName(env); ok {
			return k, true
		}
	}
	return FromName(os.Getenv("SHELL"))
}
