package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/brigadir/internal/ports/primary"
	"github.com/example/brigadir/internal/wire"
)

// NotificationCmd returns the notification command group
func NotificationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notification",
		Aliases: []string{"ntf"},
		Short:   "Manage notifications",
		Long:    "List, inspect and resolve notifications in the brigadir inbox",
	}
	cmd.AddCommand(notificationListCmd())
	cmd.AddCommand(notificationShowCmd())
	cmd.AddCommand(notificationReadCmd())
	cmd.AddCommand(notificationActCmd())
	return cmd
}

func notificationListCmd() *cobra.Command {
	var (
		recipientID int64
		category    string
		objectID    int64
		unreadOnly  bool
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := wire.NotificationService().ListNotifications(actorContext(0), primary.NotificationFilters{
				RecipientID: recipientID,
				Category:    category,
				ObjectID:    objectID,
				UnreadOnly:  unreadOnly,
				Limit:       limit,
			})
			if err != nil {
				return fmt.Errorf("failed to list notifications: %w", err)
			}
			if len(rows) == 0 {
				fmt.Println("No notifications found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tRECIPIENT\tTYPE\tPRIORITY\tLVL\tREAD\tCREATED\tTITLE")
			fmt.Fprintln(w, "--\t---------\t----\t--------\t---\t----\t-------\t-----")
			for _, n := range rows {
				read := " "
				if n.IsRead {
					read = "✓"
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
					n.ID, n.RecipientID, n.Type, n.Priority,
					n.EscalationLevel, read, n.CreatedAt, n.Title)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().Int64Var(&recipientID, "recipient", 0, "Filter by recipient user ID")
	cmd.Flags().StringVar(&category, "category", "", "Filter by category (tasks, gpr, supply, construction, escalation, system)")
	cmd.Flags().Int64Var(&objectID, "object", 0, "Filter by object ID")
	cmd.Flags().BoolVar(&unreadOnly, "unread", false, "Unread only")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows")
	return cmd
}

func notificationShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [notification-id]",
		Short: "Show notification details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := wire.NotificationService().GetNotification(actorContext(0), args[0])
			if err != nil {
				return fmt.Errorf("notification not found: %w", err)
			}

			title := color.New(color.Bold)
			title.Printf("%s\n", n.Title)
			fmt.Println()
			fmt.Println(n.Body)
			fmt.Println()
			fmt.Printf("ID: %s\n", n.ID)
			fmt.Printf("Recipient: %d\n", n.RecipientID)
			fmt.Printf("Type: %s\n", n.Type)
			fmt.Printf("Priority: %s\n", n.Priority)
			fmt.Printf("Category: %s\n", n.Category)
			if n.ObjectID != 0 {
				fmt.Printf("Object: %d - %s\n", n.ObjectID, n.ObjectName)
			}
			fmt.Printf("Read: %v\n", n.IsRead)
			if n.EscalationLevel > 0 {
				color.Red("Escalation level: %d", n.EscalationLevel)
			}
			if n.TriggeredBy != "" {
				fmt.Printf("Triggered by: %s\n", n.TriggeredBy)
			}
			fmt.Printf("Created: %s\n", n.CreatedAt)
			if n.ExpiresAt != "" {
				fmt.Printf("Expires: %s\n", n.ExpiresAt)
			}
			if n.DeepLink != "" {
				fmt.Printf("Link: %s\n", n.DeepLink)
			}
			if len(n.Actions) > 0 {
				fmt.Println("Actions:")
				for _, a := range n.Actions {
					fmt.Printf("  %s  %s\n", a.Key, a.Label)
				}
			}
			return nil
		},
	}
}

func notificationReadCmd() *cobra.Command {
	var recipientID int64

	cmd := &cobra.Command{
		Use:   "read [notification-id]",
		Short: "Mark a notification read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applied, err := wire.NotificationService().MarkRead(actorContext(recipientID), args[0], recipientID)
			if err != nil {
				return fmt.Errorf("failed to mark read: %w", err)
			}
			if !applied {
				fmt.Println("Already read.")
				return nil
			}
			fmt.Println("✓ Marked read, escalation stopped")
			return nil
		},
	}

	cmd.Flags().Int64Var(&recipientID, "as", 0, "Recipient user ID")
	cmd.MarkFlagRequired("as")
	return cmd
}

func notificationActCmd() *cobra.Command {
	var recipientID int64

	cmd := &cobra.Command{
		Use:   "act [notification-id] [action-key]",
		Short: "Act on a notification button",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := wire.ActionService().HandleAction(actorContext(recipientID), primary.ActionRequest{
				NotificationID: args[0],
				RecipientID:    recipientID,
				ActionKey:      args[1],
			})
			if err != nil {
				return fmt.Errorf("failed to act: %w", err)
			}
			if !result.Applied {
				fmt.Println("Already resolved.")
				return nil
			}
			fmt.Printf("✓ Action %s recorded\n", args[1])
			if result.FollowUpEvent != "" {
				fmt.Printf("  follow-up event fired: %s\n", result.FollowUpEvent)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&recipientID, "as", 0, "Recipient user ID")
	cmd.MarkFlagRequired("as")
	return cmd
}
