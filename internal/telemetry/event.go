package telemetry

import "time"

type EventType string

const (
	EventTaskCreated         EventType = "task_created"
	EventTaskUpdated         EventType = "task_updated"
	EventTaskStatusChanged   EventType = "task_status_changed"
	EventTaskRemoved         EventType = "task_removed"
	EventPlannerReset        EventType = "planner_reset"
	EventChatMessage         EventType = "chat_message"
	EventChatReply           EventType = "chat_reply"
	EventChatReplySuperseded EventType = "chat_reply_superseded"
	EventChatCleared         EventType = "chat_cleared"
	EventSuggestionsServed   EventType = "suggestions_served"
	EventSuggestSuperseded   EventType = "suggestions_superseded"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}
