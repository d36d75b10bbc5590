package model

// Ack is the result of actions whose remote response only reports success
// (reactions, follow, unfollow).
type Ack struct {
	Success bool
}

// CreatedObject is the result of actions that create a remote object
// (comments, shares). ID is the identifier the remote service assigned.
type CreatedObject struct {
	ID string
}

// Profile identifies the account a credential belongs to.
type Profile struct {
	ID   string
	Name string
}
