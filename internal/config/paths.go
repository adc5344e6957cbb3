package config

import (
	"os"
	"path/filepath"
)

// Paths carries every filesystem location the core packages touch. It is
// resolved once at the entry point and passed down explicitly so no component
// reads process state on its own.
type Paths struct {
	BaseDir string // data directory, default ~/.ttylog
	LogRoot string // raw capture files, default <BaseDir>/logs
	DBPath  string // structured store, default <BaseDir>/ttylog.db
}

// ResolvePaths builds the Paths for a loaded config, applying overrides from
// the config file and the TTYLOG_LOG_ROOT environment variable (the same
// override the shell snippet honors).
func ResolvePaths(cfg Config) Paths {
	base := cfg.General.DataDir
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".ttylog")
	}

	logRoot := cfg.General.LogRoot
	if env := os.Getenv("TTYLOG_LOG_ROOT"); env != "" {
		logRoot = env
	}
	if logRoot == "" {
		logRoot = filepath.Join(base, "logs")
	}

	return Paths{
		BaseDir: base,
		LogRoot: logRoot,
		DBPath:  filepath.Join(base, "ttylog.db"),
	}
}

// ExportDir returns the directory used for CSV exports from the browser.
func (p Paths) ExportDir() string {
	return filepath.Join(p.BaseDir, "exports")
}
