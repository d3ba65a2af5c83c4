package testhelpers

import (
	"sync"
	"time"
)

// DefaultNow is a Friday, so business-day arithmetic in tests is stable.
var DefaultNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

// Clock is a manually advanced time source safe for concurrent use.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start.UTC()}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t.UTC()
	c.mu.Unlock()
}

// TestSameDayTimeWindow returns the whole UTC day containing the clock's
// current time.
func (h *TestHelper) TestSameDayTimeWindow() (time.Time, time.Time) {
	now := h.Clock.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return todayStart, todayStart.Add(23*time.Hour + 59*time.Minute)
}
