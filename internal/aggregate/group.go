package aggregate

import (
	"sort"

	"github.com/naka-gawa/repo-metrics/internal/domain"
)

// GroupedSum sums values per distinct key. Output order is the order in which
// each key first occurs in keys.
func GroupedSum(keys []string, values []int64) ([]domain.Entry, error) {
	if len(keys) != len(values) {
		return nil, &domain.LengthMismatchError{Want: len(keys), Got: len(values)}
	}
	index := make(map[string]int, len(keys))
	out := make([]domain.Entry, 0)
	for i, k := range keys {
		pos, ok := index[k]
		if !ok {
			pos = len(out)
			index[k] = pos
			out = append(out, domain.Entry{Key: k})
		}
		out[pos].Value += values[i]
	}
	return out, nil
}

// Count is GroupedSum with every value equal to one.
func Count(keys []string) []domain.Entry {
	ones := make([]int64, len(keys))
	for i := range ones {
		ones[i] = 1
	}
	out, _ := GroupedSum(keys, ones)
	return out
}

// TopN returns the n entries with the largest values, sorted descending.
// Ties keep their input order. n <= 0 ranks without truncating.
// The input slice is not modified.
func TopN(entries []domain.Entry, n int) []domain.Entry {
	out := make([]domain.Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Negate returns a copy of entries with every value sign-inverted. Reports use
// it to draw deletions as negative magnitudes.
func Negate(entries []domain.Entry) []domain.Entry {
	out := make([]domain.Entry, len(entries))
	for i, e := range entries {
		out[i] = domain.Entry{Key: e.Key, Value: -e.Value}
	}
	return out
}

// NegativeMagnitudes returns points with every value as -|v|. Deletions are
// drawn below the axis whatever sign the source reports them with.
func NegativeMagnitudes(points []domain.Point) []domain.Point {
	out := make([]domain.Point, len(points))
	for i, p := range points {
		v := p.Value
		if v > 0 {
			v = -v
		}
		out[i] = domain.Point{Time: p.Time, Value: v}
	}
	return out
}

// Stack sums several aligned value columns per distinct key, in first
// occurrence order. Every column must have the length of keys.
func Stack(keys []string, columns ...[]int64) ([]domain.Stack, error) {
	for _, col := range columns {
		if len(col) != len(keys) {
			return nil, &domain.LengthMismatchError{Want: len(keys), Got: len(col)}
		}
	}
	index := make(map[string]int, len(keys))
	out := make([]domain.Stack, 0)
	for i, k := range keys {
		pos, ok := index[k]
		if !ok {
			pos = len(out)
			index[k] = pos
			out = append(out, domain.Stack{Key: k, Values: make([]int64, len(columns))})
		}
		for c, col := range columns {
			out[pos].Values[c] += col[i]
		}
	}
	return out, nil
}
