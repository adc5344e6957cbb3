package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ttylog/internal/config"
	"ttylog/internal/shell"
)

// InstallResult reports what Install did.
type InstallResult struct {
	Shell          shell.Kind
	RCPath         string
	AlreadyPresent bool
}

// Install creates the log root and splices the activation snippet into the
// rc file for the given shell. Installing twice is a no-op reported through
// AlreadyPresent.
func Install(paths config.Paths, home string, kind shell.Kind) (InstallResult, error) {
	res := InstallResult{Shell: kind, RCPath: kind.RCPath(home)}

	if err := os.MkdirAll(paths.LogRoot, 0o755); err != nil {
		return res, fmt.Errorf("creating log root %s: %w", paths.LogRoot, err)
	}

	current, err := readFile(res.RCPath)
	if err != nil {
		return res, err
	}

	updated, injected := Inject(current, kind.Snippet())
	if !injected {
		res.AlreadyPresent = true
		return res, nil
	}

	if err := writeFileAtomic(res.RCPath, updated); err != nil {
		return res, err
	}

	if kind == shell.Bash {
		if err := ensureBashProfileSourcesBashrc(home); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Uninstall removes the snippet from every known rc file. It returns the
// paths it actually changed.
func Uninstall(home string) ([]string, error) {
	var removed []string
	for _, kind := range shell.All {
		rcPath := kind.RCPath(home)
		current, err := readFile(rcPath)
		if err != nil {
			return removed, err
		}
		if current == "" {
			continue
		}
		cleaned, ok := Remove(current)
		if !ok {
			continue
		}
		if err := writeFileAtomic(rcPath, cleaned); err != nil {
			return removed, err
		}
		removed = append(removed, rcPath)
	}
	return removed, nil
}

// Installed reports whether the start marker is present in the rc file for
// the given shell.
func Installed(home string, kind shell.Kind) (bool, error) {
	content, err := readFile(kind.RCPath(home))
	if err != nil {
		return false, err
	}
	return markerIndex(content, shell.StartMarker) >= 0, nil
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// writeFileAtomic writes via a temp file and rename so a crash mid-write
// never leaves a half-written rc file.
func writeFileAtomic(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".ttylog-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// Login bash shells read .bash_profile, not .bashrc, so the snippet would
// never fire in terminal emulators configured as login shells. Add a small
// bridge unless .bashrc is already mentioned.
func ensureBashProfileSourcesBashrc(home string) error {
	profile := filepath.Join(home, ".bash_profile")
	const marker = "# Added by ttylog so bash login shells load .bashrc"
	sourceBlock := marker + "\n" +
		"if [ -f \"$HOME/.bashrc\" ]; then\n    source \"$HOME/.bashrc\"\nfi\n"

	content, err := readFile(profile)
	if err != nil {
		return err
	}
	if strings.Contains(content, ".bashrc") {
		return nil
	}
	if content != "" {
		content = ensureTrailingNewline(content) + "\n"
	}
	return writeFileAtomic(profile, content+sourceBlock)
}
