package cmd

import (
	"fmt"

	"ttylog/internal/cli"
	"ttylog/internal/doctor"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run installation health checks",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	cfg, paths, err := loadSetup()
	if err != nil {
		return err
	}

	report := doctor.Run(paths, homeDir(), cfg.General.Shell)
	for _, c := range report.Checks {
		fmt.Println(cli.RenderStatus(c.OK, c.Description, c.Detail))
	}

	if report.Healthy() {
		fmt.Println("All checks passed. ttylog looks healthy.")
	} else {
		fmt.Printf("%d/%d checks passed. Investigate the failures above.\n",
			report.Passed(), len(report.Checks))
	}
	return nil
}
