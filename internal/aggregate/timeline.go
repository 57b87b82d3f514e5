// Package aggregate turns field series into keyed summaries. Every function is
// pure: no I/O, no logging, and empty input yields an empty aggregate.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/naka-gawa/repo-metrics/internal/domain"
)

// Granularity selects the bucket width of CountOverTime.
type Granularity int

const (
	Day Granularity = iota
	Week
	Month
)

func (g Granularity) String() string {
	switch g {
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	}
	return fmt.Sprintf("Granularity(%d)", int(g))
}

// ParseGranularity accepts "day", "week" or "month".
func ParseGranularity(s string) (Granularity, error) {
	for _, g := range []Granularity{Day, Week, Month} {
		if g.String() == s {
			return g, nil
		}
	}
	return Day, fmt.Errorf("unknown granularity %q", s)
}

// Truncate returns the bucket key of t. Keys are in UTC; weeks start on Monday.
func (g Granularity) Truncate(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch g {
	case Week:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return day
}

// CountOverTime counts timestamps per bucket and adds a running total in
// ascending bucket order. Buckets without occurrences are not synthesized.
func CountOverTime(ts []time.Time, g Granularity) []domain.TimeBucket {
	counts := make(map[time.Time]int)
	for _, t := range ts {
		counts[g.Truncate(t)]++
	}

	out := make([]domain.TimeBucket, 0, len(counts))
	for k, n := range counts {
		out = append(out, domain.TimeBucket{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Before(out[j].Key) })

	total := 0
	for i := range out {
		total += out[i].Count
		out[i].Total = total
	}
	return out
}

// PointsOverTime sums values per bucket of their aligned timestamps, in
// ascending bucket order. It serves weekly additions and deletions.
func PointsOverTime(ts []time.Time, values []int64, g Granularity) ([]domain.Point, error) {
	if len(ts) != len(values) {
		return nil, &domain.LengthMismatchError{Want: len(ts), Got: len(values)}
	}
	sums := make(map[time.Time]int64)
	for i, t := range ts {
		sums[g.Truncate(t)] += values[i]
	}
	out := make([]domain.Point, 0, len(sums))
	for k, v := range sums {
		out = append(out, domain.Point{Time: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}
