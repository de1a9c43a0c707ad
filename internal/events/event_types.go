package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserSignedUp EventType = "user_signed_up"
	EventUserLoggedIn EventType = "user_logged_in"
	EventTaskCreated  EventType = "task_created"
	EventTaskUpdated  EventType = "task_updated"
	EventTaskDeleted  EventType = "task_deleted"
)

// AllEventTypes lists every event the audit trail subscribes to.
var AllEventTypes = []EventType{
	EventUserSignedUp,
	EventUserLoggedIn,
	EventTaskCreated,
	EventTaskUpdated,
	EventTaskDeleted,
}

// Event represents a domain event emitted after a successful operation.
// Events are strictly informational: nothing on the request path reads them
// back, and a lost event never fails the operation that produced it.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TaskEventPayload payload for task lifecycle events.
type TaskEventPayload struct {
	TaskID    string `json:"task_id"`
	Text      string `json:"text,omitempty"`
	Completed bool   `json:"completed"`
}

// UserEventPayload payload for signup/login events.
type UserEventPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
