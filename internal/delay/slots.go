package delay

import (
	"context"
	"sync"
	"time"

	"github.com/Tarynjenifer/smartgrow-ai/internal/clock"
)

type slotEntry struct {
	slot *Slot
	refs int
}

// Slots is a keyed set of slots, one per panel. A slot exists only while
// a Do for its key is in flight.
type Slots struct {
	clock clock.Clock

	mu    sync.Mutex
	slots map[string]*slotEntry
}

func NewSlots(c clock.Clock) *Slots {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Slots{clock: c, slots: map[string]*slotEntry{}}
}

// Do runs Slot.Do on the slot for key, creating it if needed. The slot is
// forgotten once no Do for key remains.
func (s *Slots) Do(ctx context.Context, key string, d time.Duration, fn func() error) error {
	s.mu.Lock()
	e, ok := s.slots[key]
	if !ok {
		e = &slotEntry{slot: NewSlot(s.clock)}
		s.slots[key] = e
	}
	e.refs++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		e.refs--
		if e.refs == 0 && s.slots[key] == e {
			delete(s.slots, key)
		}
		s.mu.Unlock()
	}()

	return e.slot.Do(ctx, d, fn)
}

// Peek returns the slot for key without creating one.
func (s *Slots) Peek(key string) (*Slot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.slots[key]
	if !ok {
		return nil, false
	}
	return e.slot, true
}

// Pending reports whether a completion for key is outstanding.
func (s *Slots) Pending(key string) bool {
	slot, ok := s.Peek(key)
	return ok && slot.Pending()
}

// Cancel drops the outstanding completion for key, if any.
func (s *Slots) Cancel(key string) bool {
	slot, ok := s.Peek(key)
	return ok && slot.Cancel()
}

func (s *Slots) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}
