package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plazacoche/charger-rota/pkg/core/model"
)

// ListUsersCmd creates the listUsers command
func ListUsersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listUsers",
		Short: "List registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roleName, _ := cmd.Flags().GetString("role")
			role, err := model.ParseRole(roleName)
			if err != nil {
				return err
			}

			users, err := app.Database.FindUsersByRole(app.Ctx, role)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nFound %d %s(s):\n\n", len(users), role)
			for _, u := range users {
				fmt.Fprintf(out, "- %s (%s) - %s - %d hours used\n", u.Name, u.ID, u.Email, u.HoursUsed)
			}

			return nil
		},
	}

	cmd.Flags().String("role", string(model.RoleUser), "Role to list: user or admin")

	return cmd
}
