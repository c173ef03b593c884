package task

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tarynjenifer/smartgrow-ai/internal/clock"
	"github.com/Tarynjenifer/smartgrow-ai/internal/telemetry"
)

// MemoryRepo keeps tasks in insertion order. It is safe for concurrent use.
type MemoryRepo struct {
	mu    sync.RWMutex
	tasks []Task

	clock  clock.Clock
	events telemetry.Recorder
	logger *zap.Logger
	newID  func() string
}

type Option func(*MemoryRepo)

func WithClock(c clock.Clock) Option {
	return func(r *MemoryRepo) { r.clock = c }
}

func WithRecorder(rec telemetry.Recorder) Option {
	return func(r *MemoryRepo) { r.events = rec }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *MemoryRepo) { r.logger = l }
}

func WithIDGenerator(fn func() string) Option {
	return func(r *MemoryRepo) { r.newID = fn }
}

func NewMemoryRepo(opts ...Option) *MemoryRepo {
	r := &MemoryRepo{
		tasks:  make([]Task, 0),
		clock:  clock.RealClock{},
		events: telemetry.Nop{},
		logger: zap.NewNop(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *MemoryRepo) indexOf(id string) int {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *MemoryRepo) record(ev telemetry.EventType, md telemetry.EventMetadata) {
	if err := r.events.RecordEvent(ev, md); err != nil {
		r.logger.Warn("record event failed", zap.String("event", string(ev)), zap.Error(err))
	}
}

func (r *MemoryRepo) Add(ctx context.Context, d Draft) (Task, error) {
	_ = ctx

	if d.Type == "" {
		d.Type = TypePlanting
	}
	if !d.Type.Valid() {
		return Task{}, fmt.Errorf("%w: %q", ErrInvalidType, d.Type)
	}
	now := r.clock.Now()
	if strings.TrimSpace(d.Date) == "" {
		d.Date = now.Format(DateLayout)
	}
	if err := validDate(d.Date); err != nil {
		return Task{}, err
	}

	t := Task{
		Title:     d.Title,
		Type:      d.Type,
		Crop:      d.Crop,
		Zone:      d.Zone,
		Date:      d.Date,
		Status:    StatusPending,
		Notes:     d.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	t.ID = r.newID()
	for r.indexOf(t.ID) >= 0 {
		t.ID = r.newID()
	}
	r.tasks = append(r.tasks, t)
	r.mu.Unlock()

	r.logger.Debug("task added", zap.String("task_id", t.ID), zap.String("type", string(t.Type)))
	r.record(telemetry.EventTaskCreated, telemetry.EventMetadata{"task_id": t.ID, "type": string(t.Type)})
	return t, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Task, bool, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return Task{}, false, nil
	}
	return r.tasks[i], true, nil
}

func (r *MemoryRepo) List(ctx context.Context, filter Filter) ([]Task, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if filter.matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, id string, f Fields) (Task, bool, error) {
	_ = ctx

	if err := f.validate(); err != nil {
		return Task{}, false, err
	}

	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return Task{}, false, nil
	}
	t := r.tasks[i]
	f.apply(&t)
	t.UpdatedAt = r.clock.Now()
	r.tasks[i] = t
	r.mu.Unlock()

	r.record(telemetry.EventTaskUpdated, telemetry.EventMetadata{"task_id": id})
	return t, true, nil
}

// SetStatus allows any transition, including completed back to pending.
func (r *MemoryRepo) SetStatus(ctx context.Context, id string, status Status) (Task, bool, error) {
	_ = ctx

	if !status.Valid() {
		return Task{}, false, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return Task{}, false, nil
	}
	t := r.tasks[i]
	from := t.Status
	t.Status = status
	t.UpdatedAt = r.clock.Now()
	r.tasks[i] = t
	r.mu.Unlock()

	r.record(telemetry.EventTaskStatusChanged, telemetry.EventMetadata{
		"task_id": id,
		"from":    string(from),
		"to":      string(status),
	})
	return t, true, nil
}

func (r *MemoryRepo) Remove(ctx context.Context, id string) (bool, error) {
	_ = ctx

	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return false, nil
	}
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	r.mu.Unlock()

	r.record(telemetry.EventTaskRemoved, telemetry.EventMetadata{"task_id": id})
	return true, nil
}

// Upcoming returns the first limit tasks that are not completed, in
// insertion order. It does not sort by date.
func (r *MemoryRepo) Upcoming(ctx context.Context, limit int) ([]Task, error) {
	_ = ctx

	out := make([]Task, 0)
	if limit <= 0 {
		return out, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tasks {
		if len(out) == limit {
			break
		}
		if t.Status != StatusCompleted {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *MemoryRepo) Counts(ctx context.Context) (Counts, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var c Counts
	for _, t := range r.tasks {
		switch t.Status {
		case StatusPending:
			c.Pending++
		case StatusInProgress:
			c.InProgress++
		case StatusCompleted:
			c.Completed++
		}
	}
	c.Total = len(r.tasks)
	return c, nil
}

// Reset replaces the whole collection with seed. Seed tasks keep their ids
// and statuses; missing ids are generated and missing statuses default to
// pending.
func (r *MemoryRepo) Reset(ctx context.Context, seed []Task) error {
	_ = ctx

	now := r.clock.Now()
	next := make([]Task, 0, len(seed))
	seen := make(map[string]bool, len(seed))
	for _, t := range seed {
		if t.ID == "" {
			t.ID = r.newID()
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateID, t.ID)
		}
		seen[t.ID] = true
		if t.Status == "" {
			t.Status = StatusPending
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("seed task %q: %w", t.ID, err)
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		if t.UpdatedAt.IsZero() {
			t.UpdatedAt = now
		}
		next = append(next, t)
	}

	r.mu.Lock()
	r.tasks = next
	r.mu.Unlock()

	r.record(telemetry.EventPlannerReset, telemetry.EventMetadata{"count": len(next)})
	return nil
}
