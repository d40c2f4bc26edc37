package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plazacoche/charger-rota/pkg/core/model"
	"github.com/plazacoche/charger-rota/pkg/core/services"
)

// AddUserCmd creates the addUser command
func AddUserCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addUser <name> <email>",
		Short: "Register a user who shares the charger",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			roleName, _ := cmd.Flags().GetString("role")
			role, err := model.ParseRole(roleName)
			if err != nil {
				return err
			}

			user, err := services.CreateUser(app.Ctx, app.Database, app.Logger, args[0], args[1], role)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ User created!\n\n")
			fmt.Fprintf(out, "ID:    %s\n", user.ID)
			fmt.Fprintf(out, "Name:  %s\n", user.Name)
			fmt.Fprintf(out, "Email: %s\n", user.Email)
			fmt.Fprintf(out, "Role:  %s\n\n", user.Role)

			return nil
		},
	}

	cmd.Flags().String("role", string(model.RoleUser), "Role: user (gets charger time) or admin")

	return cmd
}
