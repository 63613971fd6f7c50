package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMatchClockElapsedWhileRunning(t *testing.T) {
	c := NewMatchClock(testStart)

	assert.Equal(t, time.Duration(0), c.Elapsed(testStart))
	assert.Equal(t, 90*time.Second, c.Elapsed(testStart.Add(90*time.Second)))
}

func TestMatchClockFrozenWhilePaused(t *testing.T) {
	c := NewMatchClock(testStart).Pause(testStart.Add(5 * time.Minute))

	assert.True(t, c.Paused)
	assert.Equal(t, testStart.Add(5*time.Minute), c.PausedAt)
	assert.Equal(t, 5*time.Minute, c.Elapsed(testStart.Add(6*time.Minute)))
	assert.Equal(t, 5*time.Minute, c.Elapsed(testStart.Add(3*time.Hour)))
}

func TestMatchClockResumeAccumulatesPause(t *testing.T) {
	c := NewMatchClock(testStart).
		Pause(testStart.Add(5 * time.Minute)).
		Resume(testStart.Add(8 * time.Minute))

	assert.False(t, c.Paused)
	assert.True(t, c.PausedAt.IsZero())
	assert.Equal(t, 3*time.Minute, c.AccumulatedPause)

	before := c.Elapsed(testStart.Add(8 * time.Minute))
	delta := 42 * time.Second
	after := c.Elapsed(testStart.Add(8*time.Minute + delta))
	assert.Equal(t, 5*time.Minute, before)
	assert.Equal(t, delta, after-before)
}

func TestMatchClockRedundantCallsAreNoOps(t *testing.T) {
	running := NewMatchClock(testStart)
	assert.Equal(t, running, running.Resume(testStart.Add(time.Minute)))

	paused := running.Pause(testStart.Add(time.Minute))
	assert.Equal(t, paused, paused.Pause(testStart.Add(2*time.Minute)))
}

func TestMatchClockNeverNegative(t *testing.T) {
	c := NewMatchClock(testStart)
	assert.Equal(t, time.Duration(0), c.Elapsed(testStart.Add(-time.Minute)))

	skewed := c.Pause(testStart.Add(time.Minute)).Resume(testStart)
	assert.Equal(t, time.Duration(0), skewed.AccumulatedPause)
}

func TestMatchClockMultiplePauses(t *testing.T) {
	c := NewMatchClock(testStart)
	for i := 0; i < 3; i++ {
		base := testStart.Add(time.Duration(i) * 10 * time.Minute)
		c = c.Pause(base.Add(4 * time.Minute)).Resume(base.Add(10 * time.Minute))
	}

	assert.Equal(t, 18*time.Minute, c.AccumulatedPause)
	assert.Equal(t, 12*time.Minute, c.Elapsed(testStart.Add(30*time.Minute)))
}
