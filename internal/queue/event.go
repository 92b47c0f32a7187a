// Package queue defines message payloads exchanged over the message broker.
package queue

// Event type constants published by the API.
const (
	EventUserRegistered = "user.registered"
	EventPostCreated    = "post.created"
	EventPostUpdated    = "post.updated"
	EventPostDeleted    = "post.deleted"
)

// ActivityEvent is published after a successful mutation. It carries enough
// information for downstream consumers to build an audit trail without
// querying the primary database.
type ActivityEvent struct {
	Type       string `json:"type"`
	UserID     uint64 `json:"user_id"`
	PostID     uint64 `json:"post_id,omitempty"`
	Detail     string `json:"detail,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
