package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/graphpilot/internal/application"
)

func newActivityCommand(actions *application.ActionService) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "List recently recorded actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 1 {
				return fmt.Errorf("--limit must be at least 1, got %d", limit)
			}

			out := cmd.OutOrStdout()
			records, err := actions.RecentActivity(cmd.Context(), limit)
			if err != nil {
				fmt.Fprintln(out, failStyle.Render("✘ "+err.Error()))
				return nil
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No activity recorded yet.")
				return nil
			}

			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-19s  %-16s  %-24s  %s", "TIME", "KIND", "TARGET", "DETAIL")))
			for _, r := range records {
				fmt.Fprintf(out, "%s  %-16s  %-24s  %s\n",
					labelStyle.Render(r.CreatedAt.Local().Format(timeLayout)),
					r.Kind,
					r.TargetID,
					r.Detail,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of records to show")
	return cmd
}
