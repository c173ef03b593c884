package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tarynjenifer/smartgrow-ai/internal/clock"
)

func TestMemoryRepository_RecordAndFilter(t *testing.T) {
	start := time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC)
	c := clock.NewFakeClock(start)
	repo := NewMemoryRepository(c, 0)

	require.NoError(t, repo.RecordEvent(EventTaskCreated, EventMetadata{"task_id": "1"}))
	c.Advance(time.Hour)
	require.NoError(t, repo.RecordEvent(EventChatMessage, nil))

	all, err := repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].ID)
	assert.Equal(t, start, all[0].Timestamp)

	recent, err := repo.GetEvents(start.Add(time.Minute), nil)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, EventChatMessage, recent[0].Type)

	typed, err := repo.GetEvents(time.Time{}, []EventType{EventTaskCreated})
	require.NoError(t, err)
	assert.Len(t, typed, 1)

	require.NoError(t, repo.Clear())
	all, err = repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryRepository_CapDropsOldest(t *testing.T) {
	repo := NewMemoryRepository(nil, 2)

	for range 3 {
		require.NoError(t, repo.RecordEvent(EventChatMessage, nil))
	}

	events, err := repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 2, events[0].ID)
	assert.Equal(t, 3, events[1].ID)
}

func TestCalculateStats(t *testing.T) {
	repo := NewMemoryRepository(nil, 0)
	_ = repo.RecordEvent(EventTaskCreated, EventMetadata{"task_id": "a"})
	_ = repo.RecordEvent(EventTaskStatusChanged, EventMetadata{"from": "pending", "to": "completed"})
	_ = repo.RecordEvent(EventTaskStatusChanged, EventMetadata{"from": "completed", "to": "pending"})
	_ = repo.RecordEvent(EventTaskRemoved, EventMetadata{"task_id": "a"})
	_ = repo.RecordEvent(EventChatMessage, EventMetadata{})
	_ = repo.RecordEvent(EventChatReply, EventMetadata{"rule": "yellowing"})
	_ = repo.RecordEvent(EventChatReplySuperseded, EventMetadata{})
	_ = repo.RecordEvent(EventSuggestionsServed, EventMetadata{"count": 4})

	events, err := repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)

	stats, err := CalculateStats(events, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TasksCreated)
	assert.Equal(t, 1, stats.TasksCompleted)
	assert.Equal(t, 1, stats.TasksRemoved)
	assert.Equal(t, 1, stats.StatusTransitions["pending->completed"])
	assert.Equal(t, 1, stats.StatusTransitions["completed->pending"])
	assert.Equal(t, 1, stats.ChatMessages)
	assert.Equal(t, 1, stats.ChatReplies)
	assert.Equal(t, 1, stats.ChatRepliesDropped)
	assert.Equal(t, 1, stats.RepliesByRule["yellowing"])
	assert.Equal(t, 1, stats.SuggestionRuns)
	assert.Equal(t, 2, stats.EventCounts[EventTaskStatusChanged])
}

func TestHandler_Stats(t *testing.T) {
	repo := NewMemoryRepository(nil, 0)
	_ = repo.RecordEvent(EventTaskCreated, EventMetadata{})
	h := NewHandler(repo)

	rec := httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tasks_created":1`)

	rec = httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/stats?since=nope", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest(http.MethodPost, "/api/stats", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
