package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ericfisherdev/graphpilot/internal/application"
	"github.com/ericfisherdev/graphpilot/internal/domain/model"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
)

// usageErrors are rejected input the user has to fix on the command line.
var usageErrors = []error{
	application.ErrInvalidCount,
	application.ErrInvalidReaction,
	application.ErrEmptyMessage,
}

func isUsageError(err error) bool {
	for _, target := range usageErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// runBatch validates count, runs batch and reports the outcome. Usage errors
// are returned; everything else is printed and swallowed.
func runBatch(cmd *cobra.Command, count int, batch func(ctx context.Context, count int) (application.BatchReport, error)) error {
	if count < 1 {
		return fmt.Errorf("--count must be at least 1, got %d", count)
	}

	report, err := batch(cmd.Context(), count)
	if err != nil && isUsageError(err) {
		return err
	}

	out := cmd.OutOrStdout()
	if len(report.Attempts) > 0 {
		renderReport(out, report, count)
	}
	if err != nil {
		fmt.Fprintln(out, failStyle.Render("✘ "+err.Error()))
	}
	return nil
}

func renderReport(w io.Writer, report application.BatchReport, requested int) {
	for _, a := range report.Attempts {
		prefix := fmt.Sprintf("[%d/%d] %s %s", a.Number, requested, describeKind(report.Kind), report.TargetID)
		switch {
		case a.Err != nil:
			fmt.Fprintln(w, failStyle.Render("✘ "+prefix+": "+a.Err.Error()))
		case a.ObjectID != "":
			fmt.Fprintln(w, okStyle.Render("✔ "+prefix)+labelStyle.Render(" → "+a.ObjectID))
		default:
			fmt.Fprintln(w, okStyle.Render("✔ "+prefix))
		}
		if a.RecordErr != nil {
			fmt.Fprintln(w, warnStyle.Render("  ! not recorded in activity log: "+a.RecordErr.Error()))
		}
	}

	summary := fmt.Sprintf("%d succeeded, %d failed", report.Succeeded, report.Failed())
	style := okStyle
	if report.Failed() > 0 {
		style = failStyle
	}
	fmt.Fprintln(w, style.Render(summary)+labelStyle.Render(" (batch "+report.BatchID+")"))
}

func describeKind(kind model.ActivityKind) string {
	return strings.ReplaceAll(string(kind), "_", " ")
}

func reactionList() string {
	names := make([]string, 0, len(model.ReactionTypes))
	for _, r := range model.ReactionTypes {
		names = append(names, string(r))
	}
	return strings.Join(names, ", ")
}
