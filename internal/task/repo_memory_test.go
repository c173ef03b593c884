package task

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tarynjenifer/smartgrow-ai/internal/clock"
	"github.com/Tarynjenifer/smartgrow-ai/internal/telemetry"
)

var testNow = time.Date(2024, 12, 19, 8, 30, 0, 0, time.UTC)

func seedTasks() []Task {
	return []Task{
		{ID: "1", Title: "Plant Lettuce Seeds", Type: TypePlanting, Crop: "Lettuce", Zone: "Zone A", Date: "2024-12-20", Status: StatusCompleted, Notes: "Planted in rows 1-3"},
		{ID: "2", Title: "Water Tomato Plants", Type: TypeWatering, Crop: "Tomatoes", Zone: "Zone B", Date: "2024-12-22", Status: StatusInProgress, Notes: "Check soil moisture before watering"},
		{ID: "3", Title: "Harvest Herbs", Type: TypeHarvesting, Crop: "Basil", Zone: "Zone C", Date: "2024-12-25", Status: StatusPending, Notes: "Ready for first harvest"},
		{ID: "4", Title: "System Maintenance", Type: TypeMaintenance, Crop: "All", Zone: "All Zones", Date: "2024-12-28", Status: StatusPending, Notes: "Monthly system check and cleaning"},
	}
}

func newSeededRepo(t *testing.T, opts ...Option) *MemoryRepo {
	t.Helper()
	opts = append([]Option{WithClock(clock.NewFakeClock(testNow))}, opts...)
	repo := NewMemoryRepo(opts...)
	require.NoError(t, repo.Reset(context.Background(), seedTasks()))
	return repo
}

func ids(ts []Task) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.ID)
	}
	return out
}

func TestMemoryRepo_SeedCountsAndUpcoming(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)

	c, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Pending: 2, InProgress: 1, Completed: 1, Total: 4}, c)

	up, err := repo.Upcoming(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3", "4"}, ids(up))
}

func TestMemoryRepo_AddForcesPending(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)

	for _, st := range []Status{"", StatusPending, StatusInProgress, StatusCompleted, "bogus"} {
		got, err := repo.Add(ctx, Draft{Title: "Seed peppers", Type: TypePlanting, Date: "2024-12-30", Status: st})
		require.NoError(t, err)
		assert.Equal(t, StatusPending, got.Status, "draft status %q", st)
	}
}

func TestMemoryRepo_AddAcceptsBlankFreeText(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo(WithClock(clock.NewFakeClock(testNow)))

	got, err := repo.Add(ctx, Draft{})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Empty(t, got.Title)
	assert.Equal(t, TypePlanting, got.Type)
	assert.Equal(t, "2024-12-19", got.Date)
	assert.Equal(t, testNow, got.CreatedAt)

	stored, ok, err := repo.Get(ctx, got.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, got, stored)
}

func TestMemoryRepo_AddRejectsClosedSetViolations(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	_, err := repo.Add(ctx, Draft{Type: "pruning"})
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = repo.Add(ctx, Draft{Type: TypeWatering, Date: "tomorrow"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	c, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, c.Total)
}

func TestMemoryRepo_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	n := 0
	repo := NewMemoryRepo(WithIDGenerator(func() string {
		n++
		// collide every other call
		return fmt.Sprintf("id-%d", n/2)
	}))

	seen := map[string]bool{}
	for range 20 {
		got, err := repo.Add(ctx, Draft{Type: TypeWatering})
		require.NoError(t, err)
		assert.False(t, seen[got.ID], "duplicate id %s", got.ID)
		seen[got.ID] = true
	}
}

func TestMemoryRepo_UpdateReplacesFields(t *testing.T) {
	ctx := context.Background()
	c := clock.NewFakeClock(testNow)
	repo := newSeededRepo(t, WithClock(c))
	c.Advance(time.Hour)

	title := "Harvest Basil"
	typ := TypeMaintenance
	date := "2024-12-26"
	got, ok, err := repo.Update(ctx, "3", Fields{Title: &title, Type: &typ, Date: &date})
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "Harvest Basil", got.Title)
	assert.Equal(t, TypeMaintenance, got.Type)
	assert.Equal(t, "2024-12-26", got.Date)
	assert.Equal(t, "Basil", got.Crop, "unspecified fields are kept")
	assert.Equal(t, StatusPending, got.Status, "update never touches status")
	assert.Equal(t, testNow.Add(time.Hour), got.UpdatedAt)
}

func TestMemoryRepo_UpdateUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)
	before, _ := repo.List(ctx, Filter{})

	title := "ghost"
	_, ok, err := repo.Update(ctx, "missing", Fields{Title: &title})
	require.NoError(t, err)
	assert.False(t, ok)

	after, _ := repo.List(ctx, Filter{})
	assert.Equal(t, before, after)
}

func TestMemoryRepo_UpdateValidates(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)

	bad := Type("pruning")
	_, _, err := repo.Update(ctx, "1", Fields{Type: &bad})
	assert.ErrorIs(t, err, ErrInvalidType)

	date := "soon"
	_, _, err = repo.Update(ctx, "1", Fields{Date: &date})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestMemoryRepo_SetStatusAnyTransition(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)

	transitions := []Status{StatusCompleted, StatusPending, StatusInProgress, StatusPending, StatusCompleted}
	for _, st := range transitions {
		got, ok, err := repo.SetStatus(ctx, "3", st)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, st, got.Status)
	}

	_, ok, err := repo.SetStatus(ctx, "missing", StatusCompleted)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = repo.SetStatus(ctx, "3", "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestMemoryRepo_RemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)

	removed, err := repo.Remove(ctx, "2")
	require.NoError(t, err)
	assert.True(t, removed)

	_, ok, err := repo.Get(ctx, "2")
	require.NoError(t, err)
	assert.False(t, ok)

	c, _ := repo.Counts(ctx)
	assert.Equal(t, 3, c.Total)

	removed, err = repo.Remove(ctx, "2")
	require.NoError(t, err)
	assert.False(t, removed)

	c, _ = repo.Counts(ctx)
	assert.Equal(t, 3, c.Total)

	list, _ := repo.List(ctx, Filter{})
	assert.Equal(t, []string{"1", "3", "4"}, ids(list), "order is preserved")
}

func TestMemoryRepo_CountsSumToTotal(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)

	ops := []func(){
		func() { _, _ = repo.Add(ctx, Draft{Type: TypeWatering}) },
		func() { _, _, _ = repo.SetStatus(ctx, "3", StatusInProgress) },
		func() { _, _ = repo.Remove(ctx, "1") },
		func() { _, _, _ = repo.SetStatus(ctx, "4", StatusCompleted) },
		func() { _, _ = repo.Add(ctx, Draft{Type: TypeHarvesting}) },
	}
	for _, op := range ops {
		op()
		c, err := repo.Counts(ctx)
		require.NoError(t, err)
		list, _ := repo.List(ctx, Filter{})
		assert.Equal(t, c.Total, c.Pending+c.InProgress+c.Completed)
		assert.Equal(t, len(list), c.Total)
	}
}

func TestMemoryRepo_UpcomingBounds(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)

	for _, n := range []int{-1, 0, 1, 2, 3, 10} {
		up, err := repo.Upcoming(ctx, n)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(up), max(n, 0))
		for _, task := range up {
			assert.NotEqual(t, StatusCompleted, task.Status)
		}
	}

	up, _ := repo.Upcoming(ctx, 10)
	assert.Equal(t, []string{"2", "3", "4"}, ids(up))

	// insertion order wins over date order
	_, err := repo.Add(ctx, Draft{Type: TypeWatering, Date: "2024-01-01"})
	require.NoError(t, err)
	up, _ = repo.Upcoming(ctx, 10)
	require.Len(t, up, 4)
	assert.Equal(t, "2024-01-01", up[3].Date)
}

func TestMemoryRepo_ListFilter(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)

	pending, err := repo.List(ctx, Filter{Status: StatusPending})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4"}, ids(pending))

	watering, err := repo.List(ctx, Filter{Type: TypeWatering})
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(watering))
}

func TestMemoryRepo_ResetRejectsBadSeed(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)

	dup := seedTasks()
	dup[1].ID = "1"
	assert.ErrorIs(t, repo.Reset(ctx, dup), ErrDuplicateID)

	bad := seedTasks()
	bad[0].Status = "archived"
	assert.ErrorIs(t, repo.Reset(ctx, bad), ErrInvalidStatus)

	reserved := seedTasks()
	reserved[2].ID = "counts"
	assert.ErrorIs(t, repo.Reset(ctx, reserved), ErrReservedID)

	// failed resets leave the store untouched
	c, _ := repo.Counts(ctx)
	assert.Equal(t, 4, c.Total)
}

func TestMemoryRepo_RecordsEvents(t *testing.T) {
	ctx := context.Background()
	events := telemetry.NewMemoryRepository(nil, 0)
	repo := newSeededRepo(t, WithRecorder(events))

	created, err := repo.Add(ctx, Draft{Type: TypePlanting})
	require.NoError(t, err)
	_, _, _ = repo.SetStatus(ctx, created.ID, StatusCompleted)
	_, _ = repo.Remove(ctx, created.ID)
	_, _ = repo.Remove(ctx, created.ID)

	got, err := events.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	types := make([]telemetry.EventType, 0, len(got))
	for _, e := range got {
		types = append(types, e.Type)
	}
	assert.Equal(t, []telemetry.EventType{
		telemetry.EventPlannerReset,
		telemetry.EventTaskCreated,
		telemetry.EventTaskStatusChanged,
		telemetry.EventTaskRemoved,
	}, types)
}
