package extract

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/naka-gawa/repo-metrics/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decode builds a collection the same way the gateway does, from JSON.
func decode(t *testing.T, raw string) domain.Collection {
	t.Helper()
	var c domain.Collection
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	return c
}

const commitsJSON = `[
	{"sha": "a1", "commit": {"author": {"name": "alice", "date": "2024-01-01T00:00:00Z"}}},
	{"sha": "b2", "commit": {"author": {"name": "bob", "date": "2024-01-01T12:00:00Z"}}},
	{"sha": "c3", "commit": {"author": {"name": "alice", "date": "2024-01-02T00:00:00Z"}}}
]`

func TestLookup(t *testing.T) {
	rec := domain.Record{"a": map[string]any{"b": map[string]any{"c": "deep"}}, "n": nil, "s": "flat"}

	testCases := []struct {
		name     string
		path     string
		expected any
		found    bool
	}{
		{"nested", "a.b.c", "deep", true},
		{"top level", "s", "flat", true},
		{"null is present", "n", nil, true},
		{"missing leaf", "a.b.x", nil, false},
		{"through a scalar", "s.x", nil, false},
		{"through a null", "n.x", nil, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := Lookup(rec, tc.path)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestTimestamps(t *testing.T) {
	ts, err := Timestamps(decode(t, commitsJSON), "commit.author.date")
	require.NoError(t, err)
	assert.Equal(t, domain.Series[time.Time]{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}, ts)
}

func TestTimestamps_Malformed(t *testing.T) {
	for _, v := range []string{"2024-01-01", "2024-01-01T00:00:00.5Z", "2024-01-01T00:00:00+09:00", "yesterday"} {
		t.Run(v, func(t *testing.T) {
			c := domain.Collection{{"created_at": "2024-01-01T00:00:00Z"}, {"created_at": v}}
			_, err := Timestamps(c, "created_at")
			var malformed *domain.MalformedTimestampError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, 1, malformed.Index)
			assert.Equal(t, v, malformed.Value)
		})
	}
}

func TestStrings_MissingField(t *testing.T) {
	c := decode(t, `[{"user": {"login": "a"}}, {"user": null}]`)
	_, err := Strings(c, "user.login")
	var missing *domain.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "user.login", missing.Field)
	assert.Equal(t, 1, missing.Index)
}

func TestStrings_InvalidType(t *testing.T) {
	_, err := Strings(domain.Collection{{"login": 42.0}}, "login")
	var invalid *domain.InvalidFieldError
	assert.ErrorAs(t, err, &invalid)
}

func TestInts(t *testing.T) {
	c := decode(t, `[{"login": "a", "contributions": 10}, {"login": "b", "contributions": 30}]`)
	got, err := Ints(c, "contributions")
	require.NoError(t, err)
	assert.Equal(t, domain.Series[int64]{10, 30}, got)

	_, err = Ints(domain.Collection{{"contributions": 1.5}}, "contributions")
	var invalid *domain.InvalidFieldError
	assert.ErrorAs(t, err, &invalid)

	native, err := Ints(domain.Collection{{"n": 3}, {"n": int64(4)}, {"n": json.Number("5")}}, "n")
	require.NoError(t, err)
	assert.Equal(t, domain.Series[int64]{3, 4, 5}, native)
}

func TestPresent(t *testing.T) {
	c := decode(t, `[{"merged_at": null}, {"merged_at": "2024-01-01T00:00:00Z"}]`)
	got, err := Present(c, "merged_at")
	require.NoError(t, err)
	assert.Equal(t, domain.Series[bool]{false, true}, got)

	_, err = Present(domain.Collection{{"state": "open"}}, "merged_at")
	var missing *domain.MissingFieldError
	assert.ErrorAs(t, err, &missing)
}

func TestSeriesAlignWithCollection(t *testing.T) {
	c := decode(t, commitsJSON)
	names, err := Strings(c, "commit.author.name")
	require.NoError(t, err)
	dates, err := Timestamps(c, "commit.author.date")
	require.NoError(t, err)
	assert.Len(t, names, len(c))
	assert.Len(t, dates, len(c))
	assert.Equal(t, domain.Series[string]{"alice", "bob", "alice"}, names)
}

func TestEmptyCollection(t *testing.T) {
	s, err := Strings(nil, "login")
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestOptionalString(t *testing.T) {
	withLicense := decode(t, `[{"license": {"name": "MIT License", "url": "https://api.github.com/licenses/mit"}}]`)[0]
	name, ok, err := OptionalString(withLicense, "license.name")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "MIT License", name)

	for _, rec := range []domain.Record{{"license": nil}, {}} {
		_, ok, err := OptionalString(rec, "license.name")
		assert.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestPairs(t *testing.T) {
	rec := decode(t, `[{"Go": 5000, "Shell": 120, "Makefile": 120, "HTML": 900}]`)[0]
	got, err := Pairs(rec)
	require.NoError(t, err)
	assert.Equal(t, []domain.Entry{
		{Key: "Go", Value: 5000},
		{Key: "HTML", Value: 900},
		{Key: "Makefile", Value: 120},
		{Key: "Shell", Value: 120},
	}, got)

	_, err = Pairs(domain.Record{"Go": "lots"})
	assert.Error(t, err)
}
