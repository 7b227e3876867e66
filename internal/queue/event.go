// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into an audit trail.
package queue

// LabelQueueName is the durable queue carrying label lifecycle events.
const LabelQueueName = "label.updated"

// Label event actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// LabelEvent is published whenever a product label changes. It carries
// enough information for downstream consumers to log or notify without
// querying the primary database.
type LabelEvent struct {
	Action     string `json:"action"`
	ProductID  uint64 `json:"product_id"`
	OwnerID    uint64 `json:"owner_id"`
	Name       string `json:"name"`
	OccurredAt string `json:"occurred_at"`
}
