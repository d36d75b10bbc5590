package model

import "time"

// Credential holds a bearer token authorizing Graph API calls on behalf of a
// user. Rows are never mutated; a newer row supersedes older ones.
type Credential struct {
	ID        int64
	UserID    int64
	Token     string
	CreatedAt time.Time
}

// Masked returns the token with everything but the first and last four
// characters replaced, for display.
func (c Credential) Masked() string {
	const keep = 4
	runes := []rune(c.Token)
	if len(runes) <= keep*2 {
		return "********"
	}
	return string(runes[:keep]) + "…" + string(runes[len(runes)-keep:])
}
