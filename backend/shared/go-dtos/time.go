package dtos

import (
	"fmt"
	"time"
)

// TimeLayout is the transport form of every date: UTC, millisecond
// precision, trailing Z.
const TimeLayout = "2006-01-02T15:04:05.000Z"

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// FormatTimePtr maps nil to nil so an absent date serializes as null.
func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(*t)
	return &s
}

// ParseTime accepts any RFC 3339 timestamp and returns it in UTC.
func ParseTime(field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid timestamp %q", field, s)
	}
	return t.UTC(), nil
}

func ParseTimePtr(field string, s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := ParseTime(field, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
