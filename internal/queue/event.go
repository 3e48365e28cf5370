// Package queue defines message payloads exchanged over the message broker
// and the background consumer that persists them.
package queue

// AuditQueueName is the durable queue carrying activity events.
const AuditQueueName = "backoffice.activity"

// ActivityEvent is published after every successful mutation. It carries
// enough for the activity log without a follow-up query.
type ActivityEvent struct {
	UserID   uint64 `json:"user_id"`
	Action   string `json:"action"` // create | update | delete
	Entity   string `json:"entity"` // resource name, e.g. "products"
	EntityID uint64 `json:"entity_id"`
	At       string `json:"at"` // RFC 3339 UTC
}
