package telemetry

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/Tarynjenifer/smartgrow-ai/internal/clock"
)

// Recorder is the write side used by the domain packages.
type Recorder interface {
	RecordEvent(eventType EventType, metadata EventMetadata) error
}

// Repository stores telemetry events
type Repository interface {
	Recorder
	GetEvents(since time.Time, eventTypes []EventType) ([]Event, error)
	Clear() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) RecordEvent(EventType, EventMetadata) error { return nil }

// MemoryRepository stores events in memory, capped at maxEvents (oldest
// dropped first). A cap of zero keeps everything.
type MemoryRepository struct {
	mu        sync.RWMutex
	events    []Event
	nextID    int
	maxEvents int
	clock     clock.Clock
}

func NewMemoryRepository(c clock.Clock, maxEvents int) *MemoryRepository {
	if c == nil {
		c = clock.RealClock{}
	}
	return &MemoryRepository{
		events:    make([]Event, 0),
		nextID:    1,
		maxEvents: maxEvents,
		clock:     c,
	}
}

func (r *MemoryRepository) RecordEvent(eventType EventType, metadata EventMetadata) error {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	event := Event{
		ID:        r.nextID,
		Type:      eventType,
		Timestamp: r.clock.Now(),
		Metadata:  string(metadataJSON),
	}

	r.events = append(r.events, event)
	r.nextID++
	if r.maxEvents > 0 && len(r.events) > r.maxEvents {
		r.events = append([]Event(nil), r.events[len(r.events)-r.maxEvents:]...)
	}

	return nil
}

func (r *MemoryRepository) GetEvents(since time.Time, eventTypes []EventType) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeFilter := make(map[EventType]bool)
	for _, t := range eventTypes {
		typeFilter[t] = true
	}

	result := make([]Event, 0)
	for _, event := range r.events {
		if event.Timestamp.Before(since) {
			continue
		}
		if len(eventTypes) > 0 && !typeFilter[event.Type] {
			continue
		}
		result = append(result, event)
	}

	return result, nil
}

func (r *MemoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = make([]Event, 0)
	r.nextID = 1

	return nil
}
