// Package extract maps raw GitHub records to typed field series.
//
// Field paths are dotted ("commit.author.date"). Extraction is purely
// structural: a missing field is an error, values are never defaulted and
// never re-signed.
package extract

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/naka-gawa/repo-metrics/internal/domain"
)

// Lookup resolves a dotted path inside a record. The second result is false
// when any segment is absent or an intermediate value is not an object.
// A present JSON null resolves to (nil, true).
func Lookup(rec domain.Record, path string) (any, bool) {
	var cur any = map[string]any(rec)
	for _, seg := range strings.Split(path, ".") {
		obj, ok := asObject(cur)
		if !ok {
			return nil, false
		}
		cur, ok = obj[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asObject(v any) (map[string]any, bool) {
	switch o := v.(type) {
	case map[string]any:
		return o, true
	case domain.Record:
		return o, true
	}
	return nil, false
}

// series applies conv to the value at path of every record.
func series[T any](c domain.Collection, path string, conv func(i int, v any) (T, error)) (domain.Series[T], error) {
	out := make(domain.Series[T], 0, len(c))
	for i, rec := range c {
		v, ok := Lookup(rec, path)
		if !ok || v == nil {
			return nil, &domain.MissingFieldError{Field: path, Index: i}
		}
		t, err := conv(i, v)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Strings extracts a string series.
func Strings(c domain.Collection, path string) (domain.Series[string], error) {
	return series(c, path, func(i int, v any) (string, error) {
		s, ok := v.(string)
		if !ok {
			return "", &domain.InvalidFieldError{Field: path, Index: i, Want: "string", Value: v}
		}
		return s, nil
	})
}

// Ints extracts an integer series. JSON numbers with a fractional part are
// rejected.
func Ints(c domain.Collection, path string) (domain.Series[int64], error) {
	return series(c, path, func(i int, v any) (int64, error) {
		n, ok := toInt(v)
		if !ok {
			return 0, &domain.InvalidFieldError{Field: path, Index: i, Want: "integer", Value: v}
		}
		return n, nil
	})
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

// Timestamps extracts a timestamp series. Values must match
// domain.TimestampLayout exactly.
func Timestamps(c domain.Collection, path string) (domain.Series[time.Time], error) {
	return series(c, path, func(i int, v any) (time.Time, error) {
		s, ok := v.(string)
		if !ok {
			return time.Time{}, &domain.InvalidFieldError{Field: path, Index: i, Want: "timestamp string", Value: v}
		}
		return ParseTimestamp(path, i, s)
	})
}

// ParseTimestamp parses one timestamp value of record i.
func ParseTimestamp(path string, i int, s string) (time.Time, error) {
	// time.Parse tolerates fractional seconds the layout does not mention.
	if len(s) != len(domain.TimestampLayout) {
		return time.Time{}, &domain.MalformedTimestampError{Field: path, Index: i, Value: s}
	}
	t, err := time.Parse(domain.TimestampLayout, s)
	if err != nil {
		return time.Time{}, &domain.MalformedTimestampError{Field: path, Index: i, Value: s}
	}
	return t, nil
}

// Present extracts whether the field at path holds a non-null value. The key
// itself must exist.
func Present(c domain.Collection, path string) (domain.Series[bool], error) {
	out := make(domain.Series[bool], 0, len(c))
	for i, rec := range c {
		v, ok := Lookup(rec, path)
		if !ok {
			return nil, &domain.MissingFieldError{Field: path, Index: i}
		}
		out = append(out, v != nil)
	}
	return out, nil
}

// OptionalString reads a field whose absence is a legitimate "no value", such
// as a repository license. A present non-string value is still an error.
func OptionalString(rec domain.Record, path string) (string, bool, error) {
	v, ok := Lookup(rec, path)
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, &domain.InvalidFieldError{Field: path, Want: "string", Value: v}
	}
	return s, true, nil
}

// Int reads one integer field of a single record.
func Int(rec domain.Record, path string) (int64, error) {
	s, err := Ints(domain.Collection{rec}, path)
	if err != nil {
		return 0, err
	}
	return s[0], nil
}

// Pairs reads an object whose keys are the aggregate keys and whose values are
// integers, such as the languages endpoint. JSON objects carry no order, so
// entries are sorted by value descending and key ascending.
func Pairs(rec domain.Record) ([]domain.Entry, error) {
	out := make([]domain.Entry, 0, len(rec))
	for k, v := range rec {
		n, ok := toInt(v)
		if !ok {
			return nil, &domain.InvalidFieldError{Field: k, Want: "integer", Value: v}
		}
		out = append(out, domain.Entry{Key: k, Value: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}
