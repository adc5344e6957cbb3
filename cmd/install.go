package cmd

import (
	"fmt"

	"ttylog/internal/installer"
	"ttylog/internal/shell"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the ttylog activation snippet into your shell",
	RunE:  runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(_ *cobra.Command, _ []string) error {
	cfg, paths, err := loadSetup()
	if err != nil {
		return err
	}

	kind, ok := shell.Detect(cfg.General.Shell)
	if !ok {
		kind, err = pickShell()
		if err != nil {
			return err
		}
	} else {
		fmt.Printf("Detected shell: %s. Set TTYLOG_SHELL or the config `shell` key to override.\n", kind)
	}

	res, err := installer.Install(paths, homeDir(), kind)
	if err != nil {
		return err
	}

	if res.AlreadyPresent {
		fmt.Printf("Snippet already present in %s; nothing changed.\n", res.RCPath)
		return nil
	}
	fmt.Printf("Installed %s snippet into %s. Open a new terminal to start recording.\n", res.Shell, res.RCPath)
	return nil
}

// pickShell asks the user which shell to instrument when detection fails.
func pickShell() (shell.Kind, error) {
	var choice shell.Kind
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[shell.Kind]().
			Title("Could not detect your shell. Which one should ttylog instrument?").
			Options(
				huh.NewOption("bash", shell.Bash),
				huh.NewOption("zsh", shell.Zsh),
				huh.NewOption("fish", shell.Fish),
			).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return 0, fmt.Errorf("shell selection: %w", err)
	}
	return choice, nil
}
