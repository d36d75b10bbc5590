// Package graphid converts shareable social-network URLs into the identifiers
// the Graph API addresses objects by.
package graphid

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"path"
	"slices"
	"strings"
	"unicode/utf8"
)

// Sentinel errors returned by the extractors. They are always wrapped with the
// offending input, so match with errors.Is.
var (
	// ErrInvalidURL indicates the input is not an absolute URL, or it carries
	// no recognizable identifier.
	ErrInvalidURL = errors.New("invalid url")

	// ErrMissingField indicates a required query parameter is absent.
	ErrMissingField = errors.New("missing field")
)

// storyPages are the legacy single-post pages addressed by id and story_fbid.
var storyPages = []string{"story.php", "permalink.php"}

// PostID extracts a post identifier from a post URL.
//
//	https://www.facebook.com/100001/posts/555                  -> "100001_555"
//	https://m.facebook.com/story.php?id=100001&story_fbid=555  -> "100001_555"
//	https://www.facebook.com/photo/987                         -> "987"
func PostID(rawURL string) (string, error) {
	u, err := parse(rawURL)
	if err != nil {
		return "", err
	}

	segments := pathSegments(u)

	if i := slices.Index(segments, "posts"); i >= 0 {
		if i == 0 || i == len(segments)-1 {
			return "", fmt.Errorf("%w: %q has no owner or post segment around \"posts\"", ErrInvalidURL, rawURL)
		}
		return segments[i-1] + "_" + segments[i+1], nil
	}

	if slices.Contains(storyPages, path.Base(u.Path)) {
		q := u.Query()
		owner, err := requireParam(q, "id", rawURL)
		if err != nil {
			return "", err
		}
		story, err := requireParam(q, "story_fbid", rawURL)
		if err != nil {
			return "", err
		}
		return owner + "_" + story, nil
	}

	if len(segments) == 0 {
		return "", fmt.Errorf("%w: %q has no path segment to use as a post id", ErrInvalidURL, rawURL)
	}
	return segments[len(segments)-1], nil
}

// CommentID extracts a comment identifier from a comment URL. The comment_id
// parameter is base64 text such as "comment:123_456"; the identifier is the
// part after the last underscore.
func CommentID(rawURL string) (string, error) {
	u, err := parse(rawURL)
	if err != nil {
		return "", err
	}

	encoded, err := requireParam(u.Query(), "comment_id", rawURL)
	if err != nil {
		return "", err
	}

	decoded, err := decodeBase64(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: comment_id in %q: %v", ErrInvalidURL, rawURL, err)
	}
	if !utf8.Valid(decoded) {
		return "", fmt.Errorf("%w: comment_id in %q does not decode to text", ErrInvalidURL, rawURL)
	}

	parts := strings.Split(string(decoded), "_")
	id := parts[len(parts)-1]
	if id == "" {
		return "", fmt.Errorf("%w: comment_id in %q decodes to %q with no trailing id", ErrInvalidURL, rawURL, decoded)
	}
	return id, nil
}

// UserID extracts a profile identifier from the id parameter of a profile URL
// such as https://www.facebook.com/profile.php?id=100001.
func UserID(rawURL string) (string, error) {
	u, err := parse(rawURL)
	if err != nil {
		return "", err
	}
	return requireParam(u.Query(), "id", rawURL)
}

// parse accepts only absolute URLs, matching what a browser address bar would
// hand the user.
func parse(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute URL", ErrInvalidURL, rawURL)
	}
	return u, nil
}

func pathSegments(u *url.URL) []string {
	var segments []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func requireParam(q url.Values, name, rawURL string) (string, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return "", fmt.Errorf("%w: %q has no %s parameter", ErrMissingField, rawURL, name)
	}
	return v, nil
}

// decodeBase64 accepts both alphabets, padded or not. Query decoding turns an
// unescaped '+' into a space, so spaces are restored first.
func decodeBase64(s string) ([]byte, error) {
	s = strings.ReplaceAll(s, " ", "+")
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}

	var lastErr error
	for _, enc := range encodings {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
