// Package delay runs completions after an artificial latency, keeping at
// most one outstanding completion per slot. Scheduling a new completion
// supersedes the previous one, whose effect is then never applied.
package delay

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Tarynjenifer/smartgrow-ai/internal/clock"
)

var (
	ErrSuperseded = errors.New("superseded by a newer request")
	ErrCancelled  = errors.New("pending request cancelled")
)

type pending struct {
	gen  uint64
	stop chan struct{}
	err  error
}

type Slot struct {
	clock clock.Clock

	mu  sync.Mutex
	gen uint64
	cur *pending
}

func NewSlot(c clock.Clock) *Slot {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Slot{clock: c}
}

// Do waits d and then runs fn, unless a newer Do or a Cancel arrives first
// or ctx is done. fn runs with the slot locked and must not call back into
// the slot.
func (s *Slot) Do(ctx context.Context, d time.Duration, fn func() error) error {
	s.mu.Lock()
	s.supersedeLocked(ErrSuperseded)
	s.gen++
	p := &pending{gen: s.gen, stop: make(chan struct{})}
	s.cur = p
	timer := s.clock.After(d)
	s.mu.Unlock()

	select {
	case <-timer:
	case <-p.stop:
		return p.err
	case <-ctx.Done():
		s.release(p)
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur != p {
		// stopped while the timer fired
		<-p.stop
		return p.err
	}
	s.cur = nil
	if fn == nil {
		return nil
	}
	return fn()
}

// Cancel drops the outstanding completion, if any. It reports whether
// something was cancelled.
func (s *Slot) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return false
	}
	s.supersedeLocked(ErrCancelled)
	return true
}

func (s *Slot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur != nil
}

func (s *Slot) supersedeLocked(reason error) {
	if s.cur == nil {
		return
	}
	s.cur.err = reason
	close(s.cur.stop)
	s.cur = nil
}

func (s *Slot) release(p *pending) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == p {
		s.cur = nil
	}
}
