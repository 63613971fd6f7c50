package domain

import "time"

// MatchClock accounts for play time across pause/resume cycles.
// PausedAt is zero unless Paused is set.
type MatchClock struct {
	StartedAt        time.Time
	Paused           bool
	PausedAt         time.Time
	AccumulatedPause time.Duration
}

func NewMatchClock(startedAt time.Time) MatchClock {
	return MatchClock{StartedAt: startedAt}
}

func (c MatchClock) Pause(now time.Time) MatchClock {
	if c.Paused {
		return c
	}

	c.Paused = true
	c.PausedAt = now
	return c
}

func (c MatchClock) Resume(now time.Time) MatchClock {
	if !c.Paused {
		return c
	}

	if span := now.Sub(c.PausedAt); span > 0 {
		c.AccumulatedPause += span
	}
	c.Paused = false
	c.PausedAt = time.Time{}
	return c
}

// Elapsed returns play time at now. While paused the value is frozen at the
// instant the pause began.
func (c MatchClock) Elapsed(now time.Time) time.Duration {
	ref := now
	if c.Paused {
		ref = c.PausedAt
	}

	elapsed := ref.Sub(c.StartedAt) - c.AccumulatedPause
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
