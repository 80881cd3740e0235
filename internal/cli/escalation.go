package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/brigadir/internal/wire"
)

// EscalationCmd returns the escalation command group
func EscalationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "escalation",
		Short: "Manage escalations",
		Long:  "List escalated notifications and run escalation sweeps by hand",
	}
	cmd.AddCommand(escalationListCmd())
	cmd.AddCommand(escalationSweepCmd())
	return cmd
}

func escalationListCmd() *cobra.Command {
	var minLevel int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List escalated notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := wire.EscalationService().ListEscalated(actorContext(0), minLevel)
			if err != nil {
				return fmt.Errorf("failed to list escalations: %w", err)
			}
			if len(rows) == 0 {
				fmt.Println("No escalated notifications.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tRECIPIENT\tTYPE\tLVL\tHOURS\tCREATED\tTITLE")
			fmt.Fprintln(w, "--\t---------\t----\t---\t-----\t-------\t-----")
			for _, n := range rows {
				fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%.1f\t%s\t%s\n",
					n.ID, n.RecipientID, n.Type, n.EscalationLevel,
					n.HoursElapsed, n.CreatedAt, n.Title)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().IntVar(&minLevel, "min-level", 1, "Minimum escalation level")
	return cmd
}

func escalationSweepCmd() *cobra.Command {
	var evening bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run an escalation sweep now",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := wire.EscalationService()
			ctx := actorContext(0)

			result, err := svc.CheckPending(ctx)
			if err != nil {
				return fmt.Errorf("sweep failed: %w", err)
			}
			fmt.Printf("Sweep: %d examined, %d escalated, %d skipped\n",
				result.Examined, result.Escalated, result.Skipped)

			if evening {
				result, err = svc.CheckEveningDeadline(ctx)
				if err != nil {
					return fmt.Errorf("evening sweep failed: %w", err)
				}
				if result.Escalated > 0 {
					color.Red("Evening deadline: %d plan-fact request(s) escalated to director",
						result.Escalated)
				} else {
					fmt.Println("Evening deadline: nothing pending")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&evening, "evening", false, "Also apply the evening plan-fact deadline")
	return cmd
}
