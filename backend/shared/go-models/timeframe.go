package models

import (
	"slices"
	"time"
)

// Timeframe bounds analytics queries.
type Timeframe string

const (
	Timeframe7Days  Timeframe = "7d"
	Timeframe30Days Timeframe = "30d"
	Timeframe90Days Timeframe = "90d"
	Timeframe1Year  Timeframe = "1y"
	TimeframeAll    Timeframe = "all"
)

var timeframes = []Timeframe{
	Timeframe7Days, Timeframe30Days, Timeframe90Days, Timeframe1Year, TimeframeAll,
}

func (Timeframe) Values() []Timeframe            { return slices.Clone(timeframes) }
func (t Timeframe) Valid() bool                  { return slices.Contains(timeframes, t) }
func ParseTimeframe(s string) (Timeframe, error) { return parseEnum("timeframe", s, timeframes) }

// Span is the window length. ALL has no span.
func (t Timeframe) Span() time.Duration {
	switch t {
	case Timeframe7Days:
		return 7 * 24 * time.Hour
	case Timeframe30Days:
		return 30 * 24 * time.Hour
	case Timeframe90Days:
		return 90 * 24 * time.Hour
	case Timeframe1Year:
		return 365 * 24 * time.Hour
	default:
		return 0
	}
}

// Window returns the interval (from, to] ending at now. For ALL, from is
// the zero time.
func (t Timeframe) Window(now time.Time) (from, to time.Time) {
	span := t.Span()
	if span == 0 {
		return time.Time{}, now
	}
	return now.Add(-span), now
}

// PreviousWindow is the window of the same length immediately before
// Window. ok is false for ALL, which has nothing to compare against.
func (t Timeframe) PreviousWindow(now time.Time) (from, to time.Time, ok bool) {
	span := t.Span()
	if span == 0 {
		return time.Time{}, time.Time{}, false
	}
	to = now.Add(-span)
	return to.Add(-span), to, true
}

// Contains reports whether ts falls in (from, to]. Consecutive windows
// therefore never share an instant.
func Contains(from, to, ts time.Time) bool {
	return ts.After(from) && !ts.After(to)
}
