package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period                string            `json:"period"`
	EventCounts           map[EventType]int `json:"event_counts"`
	TasksCreated          int               `json:"tasks_created"`
	TasksCompleted        int               `json:"tasks_completed"`
	TasksRemoved          int               `json:"tasks_removed"`
	StatusTransitions     map[string]int    `json:"status_transitions"`
	ChatMessages          int               `json:"chat_messages"`
	ChatReplies           int               `json:"chat_replies"`
	ChatRepliesDropped    int               `json:"chat_replies_dropped"`
	RepliesByRule         map[string]int    `json:"replies_by_rule"`
	SuggestionRuns        int               `json:"suggestion_runs"`
	SuggestionRunsDropped int               `json:"suggestion_runs_dropped"`
}

// CalculateStats computes usage stats from events
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:            since.Format("2006-01-02"),
		EventCounts:       make(map[EventType]int),
		StatusTransitions: make(map[string]int),
		RepliesByRule:     make(map[string]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventTaskCreated:
			stats.TasksCreated++
		case EventTaskRemoved:
			stats.TasksRemoved++
		case EventTaskStatusChanged:
			from, _ := metadata["from"].(string)
			to, _ := metadata["to"].(string)
			if from != "" && to != "" {
				stats.StatusTransitions[from+"->"+to]++
			}
			if to == "completed" {
				stats.TasksCompleted++
			}
		case EventChatMessage:
			stats.ChatMessages++
		case EventChatReply:
			stats.ChatReplies++
			if rule, ok := metadata["rule"].(string); ok {
				stats.RepliesByRule[rule]++
			}
		case EventChatReplySuperseded:
			stats.ChatRepliesDropped++
		case EventSuggestionsServed:
			stats.SuggestionRuns++
		case EventSuggestSuperseded:
			stats.SuggestionRunsDropped++
		}
	}

	return stats, nil
}
