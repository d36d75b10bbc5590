// Package graph implements the GraphClient port over the Graph HTTP API.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/ericfisherdev/graphpilot/internal/domain/port/driven"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// Compile-time interface satisfaction check.
var _ driven.GraphClient = (*Client)(nil)

// Client implements the driven.GraphClient port. It holds no credential; each
// call authenticates with the token it is given.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
}

// NewClient creates a Client for baseURL whose requests time out after timeout.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	return NewClientWithHTTPClient(&http.Client{Timeout: timeout}, baseURL)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parsing base URL: %q is not absolute", baseURL)
	}

	return &Client{httpClient: httpClient, baseURL: u}, nil
}

// errorEnvelope is the body Graph returns alongside non-2xx statuses.
type errorEnvelope struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

// do sends one request authenticated with token, decodes a 2xx JSON body into
// out and returns the raw body. Every failure is a *driven.RemoteError
// carrying the raw payload.
func (c *Client) do(ctx context.Context, token, method string, form url.Values, out any, path ...string) ([]byte, error) {
	endpoint := c.baseURL.JoinPath(path...)

	var body io.Reader
	switch method {
	case http.MethodGet, http.MethodDelete:
		if len(form) > 0 {
			endpoint.RawQuery = form.Encode()
		}
	default:
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, &driven.RemoteError{Message: "building request", Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.authorized(token).Do(req)
	if err != nil {
		return nil, &driven.RemoteError{Message: "request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	logUsage(resp, method, endpoint.Path)

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &driven.RemoteError{StatusCode: resp.StatusCode, Message: "reading response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return payload, remoteErrorFromPayload(resp.StatusCode, payload)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return payload, &driven.RemoteError{
			StatusCode: resp.StatusCode,
			Message:    "undecodable response",
			Payload:    payload,
			Err:        err,
		}
	}
	return payload, nil
}

// authorized returns an http.Client that sends token as a bearer credential
// and otherwise behaves like c.httpClient.
func (c *Client) authorized(token string) *http.Client {
	hc := *c.httpClient
	hc.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		Base:   c.httpClient.Transport,
	}
	return &hc
}

func remoteErrorFromPayload(status int, payload []byte) *driven.RemoteError {
	remoteErr := &driven.RemoteError{
		StatusCode: status,
		Message:    http.StatusText(status),
		Payload:    payload,
	}

	var env errorEnvelope
	if err := json.Unmarshal(payload, &env); err == nil && env.Error.Message != "" {
		remoteErr.Message = env.Error.Message
		remoteErr.Code = env.Error.Code
	}
	return remoteErr
}

// missingField reports a 2xx response that lacks the field proving success.
func missingField(field string, payload []byte) *driven.RemoteError {
	return &driven.RemoteError{
		StatusCode: http.StatusOK,
		Message:    fmt.Sprintf("response has no %s", field),
		Payload:    payload,
	}
}

// appUsage mirrors the X-App-Usage header: percentages of the app's rate
// limit consumed in the current window.
type appUsage struct {
	CallCount    int `json:"call_count"`
	TotalTime    int `json:"total_time"`
	TotalCPUTime int `json:"total_cputime"`
}

func logUsage(resp *http.Response, method, path string) {
	slog.Debug("graph api call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
	)

	header := resp.Header.Get("X-App-Usage")
	if header == "" {
		return
	}

	var usage appUsage
	if err := json.Unmarshal([]byte(header), &usage); err != nil {
		slog.Debug("graph api: unparseable X-App-Usage header", "value", header, "error", err)
		return
	}

	if usage.CallCount >= 80 || usage.TotalTime >= 80 || usage.TotalCPUTime >= 80 {
		slog.Warn("graph rate limit usage high",
			"call_count_pct", usage.CallCount,
			"total_time_pct", usage.TotalTime,
			"total_cputime_pct", usage.TotalCPUTime,
		)
	}
}
