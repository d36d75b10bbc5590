package model

import (
	"fmt"
	"strings"
)

// ActivityKind identifies the action an ActivityRecord describes.
type ActivityKind string

const (
	ActivityPostReaction    ActivityKind = "post_reaction"
	ActivityCommentReaction ActivityKind = "comment_reaction"
	ActivityPostComment     ActivityKind = "post_comment"
	ActivityFollow          ActivityKind = "follow"
	ActivityUnfollow        ActivityKind = "unfollow"
	ActivityShare           ActivityKind = "share"
)

// TargetKind distinguishes what a reaction is applied to.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// ActivityKind returns the activity kind recorded for a reaction on this target.
func (k TargetKind) ActivityKind() ActivityKind {
	if k == TargetComment {
		return ActivityCommentReaction
	}
	return ActivityPostReaction
}

// ReactionType is one of the reaction types accepted by the Graph API.
type ReactionType string

const (
	ReactionLike  ReactionType = "LIKE"
	ReactionLove  ReactionType = "LOVE"
	ReactionHaha  ReactionType = "HAHA"
	ReactionWow   ReactionType = "WOW"
	ReactionSad   ReactionType = "SAD"
	ReactionAngry ReactionType = "ANGRY"
)

// ReactionTypes lists every valid reaction in display order.
var ReactionTypes = []ReactionType{
	ReactionLike, ReactionLove, ReactionHaha, ReactionWow, ReactionSad, ReactionAngry,
}

// ParseReactionType converts user input (case-insensitive) into a ReactionType.
func ParseReactionType(s string) (ReactionType, error) {
	candidate := ReactionType(strings.ToUpper(strings.TrimSpace(s)))
	for _, r := range ReactionTypes {
		if r == candidate {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown reaction type %q", s)
}
