package cli

import (
	"fmt"
	"recipe_memo/internal/app/service"
	"recipe_memo/internal/platform/database"

	"github.com/spf13/cobra"
)

// NewListUsersCommand creates the list-users command.
func NewListUsersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list-users",
		Short: "List registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), rootOpts, func(svc *service.InvitationService, store *database.Store) error {
				users, err := svc.ListUsers(cmd.Context(), store.DB())
				if err != nil {
					return err
				}
				if len(users) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "[INFO] no registered users.")
					return nil
				}
				rows := make([][]string, 0, len(users))
				for _, u := range users {
					rows = append(rows, []string{u.UserID, u.Role})
				}
				printTable(cmd.OutOrStdout(), []string{"userid", "role"}, rows)
				return nil
			})
		},
	}
}

// NewSetUserRoleCommand creates the set-user-role command.
func NewSetUserRoleCommand(rootOpts *RootOptions) *cobra.Command {
	var userID, role string
	cmd := &cobra.Command{
		Use:   "set-user-role",
		Short: "Change a registered user's role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), rootOpts, func(svc *service.InvitationService, store *database.Store) error {
				ok, err := svc.SetUserRole(cmd.Context(), store.DB(), userID, role)
				if err != nil {
					return err
				}
				if ok {
					fmt.Fprintf(cmd.OutOrStdout(), "[OK] %s role set to %s.\n", userID, role)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "[WARN] %s is not registered.\n", userID)
				}
				return nil
			})
		},
	}
	addUserIDFlag(cmd, &userID)
	cmd.Flags().StringVar(&role, "role", "", "new role")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}
