package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClock_AdvanceFiresDueTimers(t *testing.T) {
	start := time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)

	short := c.After(time.Second)
	long := c.After(time.Minute)
	assert.Equal(t, 2, c.Waiters())

	c.Advance(2 * time.Second)

	select {
	case got := <-short:
		assert.Equal(t, start.Add(2*time.Second), got)
	default:
		t.Fatal("expected short timer to fire")
	}
	select {
	case <-long:
		t.Fatal("long timer fired early")
	default:
	}
	assert.Equal(t, 1, c.Waiters())

	c.Set(start.Add(time.Hour))
	select {
	case <-long:
	default:
		t.Fatal("expected long timer to fire after Set")
	}
	assert.Zero(t, c.Waiters())
}

func TestFakeClock_NonPositiveDelayFiresImmediately(t *testing.T) {
	c := NewFakeClock(time.Unix(0, 0))

	select {
	case <-c.After(0):
	default:
		t.Fatal("zero delay should fire immediately")
	}
	assert.Zero(t, c.Waiters())
}
