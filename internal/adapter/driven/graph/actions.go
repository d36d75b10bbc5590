package graph

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ericfisherdev/graphpilot/internal/domain/model"
)

// shareLinkBase is prefixed to a post id to build the link shared to the feed.
const shareLinkBase = "https://www.facebook.com/"

type ackResponse struct {
	Success bool `json:"success"`
}

type createdResponse struct {
	ID string `json:"id"`
}

type profileResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// React adds reaction to the post or comment targetID. Both target kinds use
// the same endpoint.
func (c *Client) React(ctx context.Context, token string, _ model.TargetKind, targetID string, reaction model.ReactionType) (model.Ack, error) {
	form := url.Values{"type": {string(reaction)}}
	return c.ack(ctx, token, http.MethodPost, form, targetID, "reactions")
}

// Comment posts message on postID.
func (c *Client) Comment(ctx context.Context, token, postID, message string) (model.CreatedObject, error) {
	form := url.Values{"message": {message}}
	return c.create(ctx, token, form, postID, "comments")
}

// Follow subscribes the token owner to userID.
func (c *Client) Follow(ctx context.Context, token, userID string) (model.Ack, error) {
	return c.ack(ctx, token, http.MethodPost, nil, userID, "subscribers")
}

// Unfollow removes the token owner's subscription to userID. The request
// carries no body; the credential travels in the Authorization header.
func (c *Client) Unfollow(ctx context.Context, token, userID string) (model.Ack, error) {
	return c.ack(ctx, token, http.MethodDelete, nil, userID, "subscribers")
}

// Share publishes a link to postID on the token owner's feed.
func (c *Client) Share(ctx context.Context, token, postID string) (model.CreatedObject, error) {
	form := url.Values{"link": {shareLinkBase + postID}}
	return c.create(ctx, token, form, "me", "feed")
}

// Me returns the profile token belongs to.
func (c *Client) Me(ctx context.Context, token string) (model.Profile, error) {
	var resp profileResponse
	form := url.Values{"fields": {"id,name"}}
	payload, err := c.do(ctx, token, http.MethodGet, form, &resp, "me")
	if err != nil {
		return model.Profile{}, err
	}
	if resp.ID == "" {
		return model.Profile{}, missingField("id", payload)
	}
	return model.Profile{ID: resp.ID, Name: resp.Name}, nil
}

func (c *Client) ack(ctx context.Context, token, method string, form url.Values, path ...string) (model.Ack, error) {
	var resp ackResponse
	payload, err := c.do(ctx, token, method, form, &resp, path...)
	if err != nil {
		return model.Ack{}, err
	}
	if !resp.Success {
		return model.Ack{}, missingField("success flag", payload)
	}
	return model.Ack{Success: true}, nil
}

func (c *Client) create(ctx context.Context, token string, form url.Values, path ...string) (model.CreatedObject, error) {
	var resp createdResponse
	payload, err := c.do(ctx, token, http.MethodPost, form, &resp, path...)
	if err != nil {
		return model.CreatedObject{}, err
	}
	if resp.ID == "" {
		return model.CreatedObject{}, missingField("id", payload)
	}
	return model.CreatedObject{ID: resp.ID}, nil
}
