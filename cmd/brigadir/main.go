package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/brigadir/internal/cli"
	"github.com/example/brigadir/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "brigadir",
		Short:   "Brigadir - notification and escalation engine for construction projects",
		Version: version.String(),
		Long: `Brigadir routes construction-project events to the right people, escalates
ignored notifications up the chain of command, and recalculates work
schedules when supplies slip.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.TickCmd())
	rootCmd.AddCommand(cli.FireCmd())
	rootCmd.AddCommand(cli.NotificationCmd())
	rootCmd.AddCommand(cli.ScheduleCmd())
	rootCmd.AddCommand(cli.EscalationCmd())
	rootCmd.AddCommand(cli.UserCmd())
	rootCmd.AddCommand(cli.RoleCmd())
	rootCmd.AddCommand(cli.StatusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
