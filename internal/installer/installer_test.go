package installer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ttylog/internal/config"
	"ttylog/internal/shell"
)

func testPaths(t *testing.T) (config.Paths, string) {
	t.Helper()
	home := t.TempDir()
	base := filepath.Join(home, ".ttylog")
	return config.Paths{
		BaseDir: base,
		LogRoot: filepath.Join(base, "logs"),
		DBPath:  filepath.Join(base, "ttylog.db"),
	}, home
}

func TestInstall_CreatesLogRootAndSplices(t *testing.T) {
	paths, home := testPaths(t)
	rcPath := shell.Zsh.RCPath(home)
	if err := os.WriteFile(rcPath, []byte("export EDITOR=vim\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	res, err := Install(paths, home, shell.Zsh)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if res.AlreadyPresent {
		t.Error("fresh install reported AlreadyPresent")
	}

	if _, err := os.Stat(paths.LogRoot); err != nil {
		t.Errorf("log root not created: %v", err)
	}

	content, err := os.ReadFile(rcPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), shell.StartMarker) {
		t.Error("start marker missing after install")
	}
	if !strings.Contains(string(content), "export EDITOR=vim") {
		t.Error("existing rc content lost")
	}
}

func TestInstall_SecondRunIsNoop(t *testing.T) {
	paths, home := testPaths(t)

	if _, err := Install(paths, home, shell.Zsh); err != nil {
		t.Fatalf("first Install: %v", err)
	}
	first, err := os.ReadFile(shell.Zsh.RCPath(home))
	if err != nil {
		t.Fatal(err)
	}

	res, err := Install(paths, home, shell.Zsh)
	if err != nil {
		t.Fatalf("second Install: %v", err)
	}
	if !res.AlreadyPresent {
		t.Error("second install did not report AlreadyPresent")
	}

	second, err := os.ReadFile(shell.Zsh.RCPath(home))
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Error("second install changed the rc file")
	}
}

func TestUninstall_RestoresOriginal(t *testing.T) {
	paths, home := testPaths(t)
	original := "# comment\nexport EDITOR=vim\n"
	rcPath := shell.Zsh.RCPath(home)
	if err := os.WriteFile(rcPath, []byte(original), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Install(paths, home, shell.Zsh); err != nil {
		t.Fatalf("Install: %v", err)
	}

	removed, err := Uninstall(home)
	if err != nil {
		t.Fatalf("Uninstall: %v", err)
	}
	if len(removed) != 1 || removed[0] != rcPath {
		t.Errorf("removed = %v, want [%s]", removed, rcPath)
	}

	content, err := os.ReadFile(rcPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != original {
		t.Errorf("uninstall not byte-identical:\nwant %q\ngot  %q", original, string(content))
	}
}

func TestUninstall_NothingInstalled(t *testing.T) {
	_, home := testPaths(t)
	removed, err := Uninstall(home)
	if err != nil {
		t.Fatalf("Uninstall: %v", err)
	}
	if len(removed) != 0 {
		t.Errorf("removed = %v, want none", removed)
	}
}

func TestInstall_BashBridgesProfile(t *testing.T) {
	paths, home := testPaths(t)

	if _, err := Install(paths, home, shell.Bash); err != nil {
		t.Fatalf("Install: %v", err)
	}

	profile, err := os.ReadFile(filepath.Join(home, ".bash_profile"))
	if err != nil {
		t.Fatalf("no .bash_profile written: %v", err)
	}
	if !strings.Contains(string(profile), ".bashrc") {
		t.Error(".bash_profile does not source .bashrc")
	}
}

func TestInstalled(t *testing.T) {
	paths, home := testPaths(t)

	ok, err := Installed(home, shell.Zsh)
	if err != nil || ok {
		t.Fatalf("Installed = %v, %v before install", ok, err)
	}

	if _, err := Install(paths, home, shell.Zsh); err != nil {
		t.Fatal(err)
	}

	ok, err = Installed(home, shell.Zsh)
	if err != nil || !ok {
		t.Fatalf("Installed = %v, %v after install", ok, err)
	}
}
