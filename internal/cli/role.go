package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/brigadir/internal/db"
)

// RoleCmd returns the role command group
func RoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Manage object-scoped roles",
		Long:  "Grant and list per-object roles, the basis for recipient resolution",
	}
	cmd.AddCommand(roleGrantCmd())
	cmd.AddCommand(roleListCmd())
	return cmd
}

func roleGrantCmd() *cobra.Command {
	var (
		objectID int64
		userID   int64
		role     string
	)

	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Grant a role on an object",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			_, err = database.Exec(
				"INSERT INTO object_roles (object_id, user_id, role) VALUES (?, ?, ?)",
				objectID, userID, role)
			if err != nil {
				return fmt.Errorf("failed to grant role: %w", err)
			}
			fmt.Printf("✓ User %d granted %s on object %d\n", userID, role, objectID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&objectID, "object", 0, "Object ID")
	cmd.Flags().Int64Var(&userID, "user", 0, "User ID")
	cmd.Flags().StringVar(&role, "role", "", "Role name")
	cmd.MarkFlagRequired("object")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("role")
	return cmd
}

func roleListCmd() *cobra.Command {
	var objectID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List roles on an object",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			rows, err := database.Query(
				`SELECT r.user_id, u.full_name, r.role FROM object_roles r
				 JOIN users u ON u.id = r.user_id
				 WHERE r.object_id = ? ORDER BY r.role, r.user_id`,
				objectID)
			if err != nil {
				return fmt.Errorf("failed to list roles: %w", err)
			}
			defer rows.Close()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "USER\tNAME\tROLE")
			fmt.Fprintln(w, "----\t----\t----")
			for rows.Next() {
				var (
					userID     int64
					name, role string
				)
				if err := rows.Scan(&userID, &name, &role); err != nil {
					return fmt.Errorf("failed to scan role: %w", err)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", userID, name, role)
			}
			w.Flush()
			return rows.Err()
		},
	}

	cmd.Flags().Int64Var(&objectID, "object", 0, "Object ID")
	cmd.MarkFlagRequired("object")
	return cmd
}
