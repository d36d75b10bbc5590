package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/graphpilot/internal/application"
	"github.com/ericfisherdev/graphpilot/internal/domain/model"
)

func newReactCommand(actions *application.ActionService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "react",
		Short: "React to a post or a comment",
	}
	cmd.AddCommand(
		newReactTargetCommand("post <post-url>", "React to a post", actions.ReactToPost),
		newReactTargetCommand("comment <comment-url>", "React to a comment", actions.ReactToComment),
	)
	return cmd
}

func newReactTargetCommand(
	use, short string,
	react func(ctx context.Context, url string, reaction model.ReactionType, count int) (application.BatchReport, error),
) *cobra.Command {
	var (
		reactionName string
		count        int
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  fmt.Sprintf("%s. Valid reaction types: %s.", short, reactionList()),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reaction, err := model.ParseReactionType(reactionName)
			if err != nil {
				return err
			}
			target := trimmedArg(args)
			return runBatch(cmd, count, func(ctx context.Context, count int) (application.BatchReport, error) {
				return react(ctx, target, reaction, count)
			})
		},
	}

	cmd.Flags().StringVarP(&reactionName, "type", "t", string(model.ReactionLike), "Reaction type")
	addCountFlag(cmd, &count)
	return cmd
}

func newCommentCommand(actions *application.ActionService) *cobra.Command {
	var (
		message string
		count   int
	)

	cmd := &cobra.Command{
		Use:   "comment <post-url>",
		Short: "Comment on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := trimmedArg(args)
			return runBatch(cmd, count, func(ctx context.Context, count int) (application.BatchReport, error) {
				return actions.CommentOnPost(ctx, target, message, count)
			})
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Comment text (markup is stripped)")
	_ = cmd.MarkFlagRequired("message")
	addCountFlag(cmd, &count)
	return cmd
}

func newFollowCommand(actions *application.ActionService) *cobra.Command {
	return newURLCommand("follow <profile-url>", "Follow a profile", actions.Follow)
}

func newUnfollowCommand(actions *application.ActionService) *cobra.Command {
	return newURLCommand("unfollow <profile-url>", "Unfollow a profile", actions.Unfollow)
}

func newShareCommand(actions *application.ActionService) *cobra.Command {
	return newURLCommand("share <post-url>", "Share a post to your feed", actions.Share)
}

// newURLCommand builds a command that repeats action on a single URL.
func newURLCommand(use, short string, action func(ctx context.Context, url string, count int) (application.BatchReport, error)) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := trimmedArg(args)
			return runBatch(cmd, count, func(ctx context.Context, count int) (application.BatchReport, error) {
				return action(ctx, target, count)
			})
		},
	}

	addCountFlag(cmd, &count)
	return cmd
}

func addCountFlag(cmd *cobra.Command, count *int) {
	cmd.Flags().IntVarP(count, "count", "n", 1, "Number of times to repeat the action")
}
