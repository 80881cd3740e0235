package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/brigadir/internal/wire"
)

// TickCmd returns the tick command
func TickCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "tick",
		Short: "Run one scheduler tick",
		Long: `Run a single scheduler tick and report which checks ran. The --at flag
replays the tick at a given instant (RFC 3339), useful for exercising the
time-windowed checks by hand.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("failed to parse --at: %w", err)
				}
				now = parsed
			}

			result, err := wire.SchedulerService().Tick(context.Background(), now)
			if err != nil {
				return fmt.Errorf("tick failed: %w", err)
			}

			if len(result.Ran) == 0 {
				fmt.Println("No checks matched this instant.")
				return nil
			}
			for _, name := range result.Ran {
				fmt.Printf("✓ %s\n", name)
			}
			for _, name := range result.Failed {
				fmt.Printf("✗ %s (failed)\n", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Tick instant in RFC 3339 (default now)")
	return cmd
}
