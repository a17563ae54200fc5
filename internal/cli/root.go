// Package cli implements the operator's invite tool: out-of-band management
// of invitations and user roles, straight against the database file.
package cli

import (
	"context"
	"time"
	"recipe_memo/internal/app/service"
	"recipe_memo/internal/domain/repository"
	"recipe_memo/internal/platform/database"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DatabasePath string
	// Now stamps invited_at; nil means time.Now.
	Now func() time.Time
}

// NewRootCommand creates the root command for the invite CLI. defaultDB is
// the database path used when --db is not given.
func NewRootCommand(defaultDB string) *cobra.Command {
	return newRootCommand(&RootOptions{}, defaultDB)
}

func newRootCommand(opts *RootOptions, defaultDB string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "invite",
		Short:         "Manage invitations and user roles",
		Long:          "Manage the allowed_users invitations that gate signup, and the roles of registered users.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.DatabasePath, "db", defaultDB, "path to the SQLite database file")

	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewDeactivateCommand(opts))
	cmd.AddCommand(NewReactivateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewListInvitesCommand(opts))
	cmd.AddCommand(NewListUsersCommand(opts))
	cmd.AddCommand(NewSetUserRoleCommand(opts))

	return cmd
}

// withService opens the database, runs fn with an InvitationService and
// closes the database again.
func withService(ctx context.Context, opts *RootOptions, fn func(svc *service.InvitationService, store *database.Store) error) error {
	store, err := database.Open(ctx, opts.DatabasePath)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot open database "+opts.DatabasePath, err)
	}
	defer store.Close()

	svc := service.NewInvitationService(repository.NewSQLiteFactory())
	if opts.Now != nil {
		svc = svc.WithClock(opts.Now)
	}
	return fn(svc, store)
}

func addUserIDFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "userid", "", "login identifier of the invitation")
	_ = cmd.MarkFlagRequired("userid")
}
