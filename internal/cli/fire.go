package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/brigadir/internal/core/event"
	"github.com/example/brigadir/internal/ports/primary"
	"github.com/example/brigadir/internal/wire"
)

// FireCmd returns the fire command
func FireCmd() *cobra.Command {
	var (
		actorID int64
		pairs   []string
	)

	cmd := &cobra.Command{
		Use:   "fire [kind]",
		Short: "Fire a domain event",
		Long: `Fire one event through the trigger engine. Payload values are passed as
repeated --ctx key=value flags; numeric values become integers.

Example:
  brigadir fire task_assigned --as 4 \
    --ctx object_id=1 --ctx object_name="Башня А" \
    --ctx entity_id=42 --ctx task_title="Сварка каркаса" \
    --ctx assignee_id=5 --ctx triggered_by_id=4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := event.Kind(strings.ToUpper(args[0]))

			evtCtx := event.Context{}
			for _, pair := range pairs {
				key, value, found := strings.Cut(pair, "=")
				if !found || key == "" {
					return fmt.Errorf("invalid --ctx pair %q, expected key=value", pair)
				}
				if n, err := strconv.ParseInt(value, 10, 64); err == nil {
					evtCtx[key] = n
				} else {
					evtCtx[key] = value
				}
			}
			if actorID != 0 && evtCtx[event.KeyTriggeredByID] == nil {
				evtCtx[event.KeyTriggeredByID] = actorID
			}

			result, err := wire.TriggerService().Fire(actorContext(actorID), primary.FireRequest{
				Kind:    kind,
				Context: evtCtx,
			})
			if err != nil {
				return fmt.Errorf("failed to fire event: %w", err)
			}

			if result.Skipped {
				fmt.Printf("Event skipped: %s\n", result.SkipReason)
				return nil
			}
			fmt.Printf("✓ Fired %s: %d notification(s) created\n", kind, len(result.NotificationIDs))
			for i, id := range result.NotificationIDs {
				fmt.Printf("  %s → user %d\n", id, result.Recipients[i])
			}
			if result.PushFailures > 0 {
				fmt.Printf("⚠ %d push delivery failure(s), notifications persisted\n", result.PushFailures)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&actorID, "as", 0, "Acting user ID")
	cmd.Flags().StringArrayVar(&pairs, "ctx", nil, "Event payload as key=value (repeatable)")
	return cmd
}
