package cli

import (
	"errors"
	"fmt"
	"recipe_memo/internal/app/service"
	"recipe_memo/internal/common"
	"recipe_memo/internal/domain/model"
	"recipe_memo/internal/platform/database"

	"github.com/spf13/cobra"
)

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		userID     string
		email      string
		role       string
		reactivate bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Invite a userid",
		Long: `Invite a userid so it can sign up once.

An existing invitation is only overwritten with --reactivate, which also
clears its consumption so the userid can sign up again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.InviteRequest{UserID: userID, Role: role, Reactivate: reactivate}
			if cmd.Flags().Changed("email") {
				req.Email = &email
			}
			return withService(cmd.Context(), rootOpts, func(svc *service.InvitationService, store *database.Store) error {
				result, err := svc.Invite(cmd.Context(), store.DB(), req)
				if err != nil {
					if errors.Is(err, common.ErrConflict) {
						return NewExitError(ExitFailure, "[ERROR] "+err.Error())
					}
					return err
				}
				if result == service.Reinvited {
					fmt.Fprintf(cmd.OutOrStdout(), "[OK] %s re-invited.\n", userID)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "[OK] %s invited.\n", userID)
				}
				return nil
			})
		},
	}

	addUserIDFlag(cmd, &userID)
	cmd.Flags().StringVar(&email, "email", "", "contact email")
	cmd.Flags().StringVar(&role, "role", model.RoleMember, "role granted at signup")
	cmd.Flags().BoolVar(&reactivate, "reactivate", false, "overwrite and re-enable an existing invitation")

	return cmd
}

// NewDeactivateCommand creates the deactivate command.
func NewDeactivateCommand(rootOpts *RootOptions) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "deactivate",
		Short: "Disable an invitation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), rootOpts, func(svc *service.InvitationService, store *database.Store) error {
				ok, err := svc.Deactivate(cmd.Context(), store.DB(), userID)
				if err != nil {
					return err
				}
				printInvitationOutcome(cmd, ok, userID, "invitation for %s deactivated.")
				return nil
			})
		},
	}
	addUserIDFlag(cmd, &userID)
	return cmd
}

// NewReactivateCommand creates the reactivate command.
func NewReactivateCommand(rootOpts *RootOptions) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "reactivate",
		Short: "Re-enable an invitation and clear its consumption",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), rootOpts, func(svc *service.InvitationService, store *database.Store) error {
				ok, err := svc.Reactivate(cmd.Context(), store.DB(), userID)
				if err != nil {
					return err
				}
				printInvitationOutcome(cmd, ok, userID, "invitation for %s reactivated.")
				return nil
			})
		},
	}
	addUserIDFlag(cmd, &userID)
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove an invitation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), rootOpts, func(svc *service.InvitationService, store *database.Store) error {
				ok, err := svc.Delete(cmd.Context(), store.DB(), userID)
				if err != nil {
					return err
				}
				printInvitationOutcome(cmd, ok, userID, "invitation for %s deleted.")
				return nil
			})
		},
	}
	addUserIDFlag(cmd, &userID)
	return cmd
}

// NewListInvitesCommand creates the list-invites command.
func NewListInvitesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list-invites",
		Short: "List invitations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), rootOpts, func(svc *service.InvitationService, store *database.Store) error {
				invitations, err := svc.ListInvitations(cmd.Context(), store.DB())
				if err != nil {
					return err
				}
				if len(invitations) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "[INFO] no invitations registered.")
					return nil
				}
				rows := make([][]string, 0, len(invitations))
				for _, inv := range invitations {
					active := "0"
					if inv.IsActive {
						active = "1"
					}
					rows = append(rows, []string{
						inv.UserID, orDash(inv.Email), inv.Role, active, orDash(inv.UsedAt), inv.InvitedAt,
					})
				}
				printTable(cmd.OutOrStdout(),
					[]string{"userid", "email", "role", "is_active", "used_at", "invited_at"}, rows)
				return nil
			})
		},
	}
}

func printInvitationOutcome(cmd *cobra.Command, ok bool, userID, okFormat string) {
	if ok {
		fmt.Fprintf(cmd.OutOrStdout(), "[OK] "+okFormat+"\n", userID)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "[WARN] invitation for %s not found.\n", userID)
}
