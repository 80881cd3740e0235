package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/brigadir/internal/adapters/sqlite"
	"github.com/example/brigadir/internal/app"
	"github.com/example/brigadir/internal/db"
	"github.com/example/brigadir/internal/ports/primary"
	"github.com/example/brigadir/internal/wire"
)

// ScheduleCmd returns the schedule command group
func ScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage the work schedule",
		Long:  "Inspect schedule items and run cascade recalculation after a supply delay",
	}
	cmd.AddCommand(scheduleListCmd())
	cmd.AddCommand(scheduleDelayCmd())
	return cmd
}

func scheduleListCmd() *cobra.Command {
	var objectID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schedule items for an object",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			items, err := sqlite.NewScheduleRepository(database).ItemsForObject(actorContext(0), objectID)
			if err != nil {
				return fmt.Errorf("failed to list schedule items: %w", err)
			}
			if len(items) == 0 {
				fmt.Println("No schedule items found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tMATERIAL\tSTART\tEND\tDEPENDS ON")
			fmt.Fprintln(w, "--\t-----\t--------\t-----\t---\t----------")
			for _, item := range items {
				material := "-"
				if item.Material.Valid {
					material = item.Material.String
				}
				deps := "-"
				if len(item.DependsOn) > 0 {
					deps = fmt.Sprint(item.DependsOn)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					item.ID, item.Title, material,
					item.PlannedStart.Format("2006-01-02"),
					item.PlannedEnd.Format("2006-01-02"),
					deps)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().Int64Var(&objectID, "object", 0, "Object ID")
	cmd.MarkFlagRequired("object")
	return cmd
}

func scheduleDelayCmd() *cobra.Command {
	var (
		actorID  int64
		objectID int64
		material string
		days     int
	)

	cmd := &cobra.Command{
		Use:   "delay",
		Short: "Recalculate the schedule after a supply delay",
		Long: `Shift every schedule item downstream of the delayed material by the given
number of days and notify the project team. A dependency cycle aborts the
recalculation without touching any dates.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := wire.CascadeService().Recalculate(actorContext(actorID), primary.RecalculateRequest{
				ObjectID:  objectID,
				Material:  material,
				DelayDays: days,
			})
			if err != nil {
				if errors.Is(err, app.ErrScheduleCycle) {
					return fmt.Errorf("schedule has a dependency cycle, nothing shifted: %w", err)
				}
				return fmt.Errorf("failed to recalculate: %w", err)
			}

			if result.AffectedTasks == 0 {
				fmt.Println("No schedule items depend on this material.")
				return nil
			}
			fmt.Printf("✓ Shifted %d item(s) by %d day(s)\n", result.AffectedTasks, days)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTART\tEND")
			for _, s := range result.Shifts {
				fmt.Fprintf(w, "%d\t%s\t%s → %s\t%s → %s\n",
					s.ItemID, s.Title, s.OldStart, s.NewStart, s.OldEnd, s.NewEnd)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().Int64Var(&actorID, "as", 0, "Acting user ID")
	cmd.Flags().Int64Var(&objectID, "object", 0, "Object ID")
	cmd.Flags().StringVar(&material, "material", "", "Delayed material name")
	cmd.Flags().IntVar(&days, "days", 0, "Delay in days")
	cmd.MarkFlagRequired("object")
	cmd.MarkFlagRequired("material")
	cmd.MarkFlagRequired("days")
	return cmd
}
