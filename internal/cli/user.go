package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/brigadir/internal/db"
)

// UserCmd returns the user command group
func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage directory users",
	}
	cmd.AddCommand(userAddCmd())
	cmd.AddCommand(userListCmd())
	return cmd
}

func userAddCmd() *cobra.Command {
	var (
		name   string
		chatID int64
		role   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			res, err := database.Exec(
				"INSERT INTO users (full_name, chat_id, role, is_active) VALUES (?, ?, ?, 1)",
				name, chatID, role)
			if err != nil {
				return fmt.Errorf("failed to add user: %w", err)
			}
			id, _ := res.LastInsertId()
			fmt.Printf("✓ User %d registered: %s (%s)\n", id, name, role)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().Int64Var(&chatID, "chat", 0, "Telegram chat ID")
	cmd.Flags().StringVar(&role, "role", "", "Directory role")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("role")
	return cmd
}

func userListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			rows, err := database.Query(
				"SELECT id, full_name, chat_id, role, is_active FROM users ORDER BY id")
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}
			defer rows.Close()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCHAT\tROLE\tACTIVE")
			fmt.Fprintln(w, "--\t----\t----\t----\t------")
			for rows.Next() {
				var (
					id, chatID int64
					name, role string
					active     bool
				)
				if err := rows.Scan(&id, &name, &chatID, &role, &active); err != nil {
					return fmt.Errorf("failed to scan user: %w", err)
				}
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%v\n", id, name, chatID, role, active)
			}
			w.Flush()
			return rows.Err()
		},
	}
}
