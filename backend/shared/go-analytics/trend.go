// Package analytics turns owner-scoped entity sets into the stats, trend
// and breakdown shapes returned by the repositories. Every function here is
// pure: callers pass the entities and the clock reading.
package analytics

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/poofware/mono-repo/backend/shared/go-models"
)

// NewMetricTrend compares current with previous. PercentChange stays nil
// when there is no previous value or it is zero.
func NewMetricTrend(current float64, previous *float64) models.MetricTrend {
	t := models.MetricTrend{Current: current}
	if previous == nil {
		return t
	}
	prev := *previous
	change := current - prev
	t.Previous = &prev
	t.Change = &change
	if prev != 0 {
		pct := change / prev * 100
		t.PercentChange = &pct
	}
	return t
}

/*
NewBreakdown totals the rows and assigns each one its share of the total,
rounded to two decimals with the largest-remainder method so the column
adds up to exactly 100. When the total is zero every percentage is nil.
Rows keep their input order.
*/
func NewBreakdown(rows []models.BreakdownRow) models.Breakdown {
	out := models.Breakdown{Rows: slices.Clone(rows)}
	if out.Rows == nil {
		out.Rows = []models.BreakdownRow{}
	}
	for i := range out.Rows {
		out.Rows[i].Percentage = nil
		out.Total += out.Rows[i].Value
	}
	if out.Total <= 0 {
		return out
	}

	const scale = 10000 // hundredths of a percent
	type share struct {
		idx       int
		units     int64
		remainder float64
	}
	shares := make([]share, len(out.Rows))
	var assigned int64
	for i, r := range out.Rows {
		exact := r.Value / out.Total * scale
		whole := math.Floor(exact)
		shares[i] = share{idx: i, units: int64(whole), remainder: exact - whole}
		assigned += int64(whole)
	}

	order := slices.Clone(shares)
	slices.SortStableFunc(order, func(a, b share) int { return cmp.Compare(b.remainder, a.remainder) })
	for i := 0; assigned < scale && len(order) > 0; i = (i + 1) % len(order) {
		shares[order[i].idx].units++
		assigned++
	}

	for _, s := range shares {
		pct := float64(s.units) / 100
		out.Rows[s.idx].Percentage = &pct
	}
	return out
}

// CountBy builds a breakdown with one row per label in order, counting the
// items whose key matches. Labels with no items still get a row.
func CountBy[T any, K ~string](items []T, order []K, key func(T) K) models.Breakdown {
	counts := make(map[K]float64, len(order))
	for _, it := range items {
		counts[key(it)]++
	}
	rows := make([]models.BreakdownRow, 0, len(order))
	for _, k := range order {
		rows = append(rows, models.BreakdownRow{Label: string(k), Value: counts[k]})
	}
	return NewBreakdown(rows)
}

/* ---------- Windows ---------- */

// At extracts the instant an item is counted at. A zero time means the
// item never happened (an unset completion date, say) and is skipped.
type At[T any] func(T) time.Time

func CountInWindow[T any](items []T, from, to time.Time, at At[T]) float64 {
	return SumInWindow(items, from, to, at, func(T) float64 { return 1 })
}

func SumInWindow[T any](items []T, from, to time.Time, at At[T], value func(T) float64) float64 {
	var total float64
	for _, it := range items {
		ts := at(it)
		if ts.IsZero() || !models.Contains(from, to, ts) {
			continue
		}
		total += value(it)
	}
	return total
}

// SumTrend sums value over the items that fall in tf's window and, when tf
// has one, the window before it.
func SumTrend[T any](items []T, tf models.Timeframe, now time.Time, at At[T], value func(T) float64) models.MetricTrend {
	from, to := tf.Window(now)
	current := Round2(SumInWindow(items, from, to, at, value))

	pFrom, pTo, ok := tf.PreviousWindow(now)
	if !ok {
		return NewMetricTrend(current, nil)
	}
	previous := Round2(SumInWindow(items, pFrom, pTo, at, value))
	return NewMetricTrend(current, &previous)
}

func CountTrend[T any](items []T, tf models.Timeframe, now time.Time, at At[T]) models.MetricTrend {
	return SumTrend(items, tf, now, at, func(T) float64 { return 1 })
}

// InWindow keeps the items whose instant falls in tf's window.
func InWindow[T any](items []T, tf models.Timeframe, now time.Time, at At[T]) []T {
	from, to := tf.Window(now)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if ts := at(it); !ts.IsZero() && models.Contains(from, to, ts) {
			out = append(out, it)
		}
	}
	return out
}

// Created keeps the records created in tf's window, oldest first. Ties
// are broken by id so the order is stable.
func Created[T models.Record](items []T, tf models.Timeframe, now time.Time) []T {
	out := InWindow(items, tf, now, func(it T) time.Time { return it.GetCreatedAt() })
	slices.SortFunc(out, func(a, b T) int {
		if c := a.GetCreatedAt().Compare(b.GetCreatedAt()); c != 0 {
			return c
		}
		return strings.Compare(a.GetID().String(), b.GetID().String())
	})
	return out
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// rate is part/whole as a percentage, 0 when whole is 0.
func rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return Round2(float64(part) / float64(whole) * 100)
}

func deref(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
