package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/brigadir/internal/db"
	"github.com/example/brigadir/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	var recipientID int64

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show engine status",
		Long: `Display a snapshot of the engine: active objects, pending escalations,
delayed supplies, and the unread count for a given user.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}

			fmt.Println("Brigadir Status")
			fmt.Println()

			var activeObjects, delayedSupplies, pendingEscalation int
			database.QueryRow("SELECT COUNT(*) FROM objects WHERE status = 'active'").Scan(&activeObjects)
			database.QueryRow("SELECT COUNT(*) FROM supply_orders WHERE status = 'delayed'").Scan(&delayedSupplies)
			database.QueryRow(
				"SELECT COUNT(*) FROM notifications WHERE is_read = 0 AND escalation_level > 0",
			).Scan(&pendingEscalation)

			fmt.Printf("Active objects: %d\n", activeObjects)
			fmt.Printf("Delayed supplies: %d\n", delayedSupplies)
			fmt.Printf("Escalated unread notifications: %d\n", pendingEscalation)

			if recipientID != 0 {
				unread, err := wire.NotificationService().UnreadCount(actorContext(0), recipientID)
				if err != nil {
					return fmt.Errorf("failed to count unread: %w", err)
				}
				fmt.Printf("Unread for user %d: %d\n", recipientID, unread)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&recipientID, "recipient", 0, "Show unread count for this user")
	return cmd
}
