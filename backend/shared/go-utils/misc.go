package utils

import "time"

func Ptr[T any](v T) *T {
	return &v
}

// NowUTC is truncated to microseconds, the precision Postgres stores.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
