package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/graphpilot/internal/application"
)

func newTokenCommand(creds *application.CredentialService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored access token",
	}
	cmd.AddCommand(newTokenSetCommand(creds), newTokenShowCommand(creds))
	return cmd
}

func newTokenSetCommand(creds *application.CredentialService) *cobra.Command {
	var validate bool

	cmd := &cobra.Command{
		Use:   "set <token|->",
		Short: "Store a new access token",
		Long: `Store a new access token for the configured user. The newest token is
always the one used. Pass "-" to read the token from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := args[0]
			if token == "-" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading token from stdin: %w", err)
				}
				token = line
			}

			out := cmd.OutOrStdout()
			cred, profile, err := creds.Save(cmd.Context(), token, validate)
			if err != nil {
				fmt.Fprintln(out, failStyle.Render("✘ "+err.Error()))
				return nil
			}

			fmt.Fprintln(out, okStyle.Render("✔ token saved ")+labelStyle.Render(cred.Masked()))
			if profile != nil {
				fmt.Fprintf(out, "  %s %s (%s)\n", labelStyle.Render("authenticated as"), profile.Name, profile.ID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, "Check the token against the Graph API before storing it")
	return cmd
}

func newTokenShowCommand(creds *application.CredentialService) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the token currently in use (masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			cred, ok := creds.Latest(cmd.Context())
			if !ok {
				fmt.Fprintln(out, failStyle.Render("✘ "+application.ErrNoCredential.Error()))
				return nil
			}

			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("token:"), cred.Masked())
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("saved:"), cred.CreatedAt.Local().Format(timeLayout))
			return nil
		},
	}
}

// trimmedArg returns args[0] without surrounding whitespace.
func trimmedArg(args []string) string {
	return strings.TrimSpace(args[0])
}
