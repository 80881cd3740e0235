package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/brigadir/internal/wire"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the notification engine",
		Long: `Run the engine in the foreground: a cron driver ticks the scheduler
every minute, and each tick runs the checks whose time window matches.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := wire.Logger()
			scheduler := wire.SchedulerService()

			c := cron.New()
			_, err := c.AddFunc("* * * * *", func() {
				result, err := scheduler.Tick(context.Background(), time.Now())
				if err != nil {
					logger.Error("tick failed", zap.Error(err))
					return
				}
				if len(result.Ran) > 0 {
					logger.Info("tick complete",
						zap.Strings("ran", result.Ran),
						zap.Strings("failed", result.Failed))
				}
			})
			if err != nil {
				return fmt.Errorf("failed to schedule tick: %w", err)
			}

			c.Start()
			fmt.Println("brigadir engine running, press Ctrl+C to stop")

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig

			fmt.Println("shutting down")
			<-c.Stop().Done()
			return nil
		},
	}
}
