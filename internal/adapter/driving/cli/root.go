// Package cli is the command-line driving adapter. Each command maps onto one
// application operation and renders its outcome to the command's output.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/ericfisherdev/graphpilot/internal/application"
)

// NewRootCommand builds the graphpilot command tree. Errors returned from
// Execute are usage or startup errors; failed actions are reported on the
// command output and do not surface as errors.
func NewRootCommand(creds *application.CredentialService, actions *application.ActionService, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "graphpilot",
		Short: "Automate reactions, comments, follows and shares through the Graph API",
		Long: `graphpilot performs social actions on behalf of the configured user with a
stored Graph API access token, and keeps a log of every action that succeeded.

Store a token first:  graphpilot token set <token> --validate
Without a database nothing outlives the process; pass the token on each run
with --token or GRAPHPILOT_ACCESS_TOKEN instead.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var token string
	root.PersistentFlags().StringVar(&token, "token", "", "Access token to use for this run (stored like `token set` when a database is configured)")
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if token == "" {
			return nil
		}
		return creds.Seed(cmd.Context(), token)
	}

	root.AddCommand(
		newTokenCommand(creds),
		newReactCommand(actions),
		newCommentCommand(actions),
		newFollowCommand(actions),
		newUnfollowCommand(actions),
		newShareCommand(actions),
		newActivityCommand(actions),
	)
	return root
}
