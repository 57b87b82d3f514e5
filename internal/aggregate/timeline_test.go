package aggregate

import (
	"testing"
	"time"

	"github.com/naka-gawa/repo-metrics/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCountOverTime_ByDay(t *testing.T) {
	ts := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	got := CountOverTime(ts, Day)
	assert.Equal(t, []domain.TimeBucket{
		{Key: day(2024, 1, 1), Count: 2, Total: 2},
		{Key: day(2024, 1, 2), Count: 1, Total: 3},
	}, got)
}

func TestCountOverTime_Properties(t *testing.T) {
	// Reverse chronological, as the commits endpoint returns them.
	ts := []time.Time{
		time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC),
		time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC),
		time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	for _, g := range []Granularity{Day, Week, Month} {
		t.Run(g.String(), func(t *testing.T) {
			got := CountOverTime(ts, g)
			sum := 0
			for i, b := range got {
				sum += b.Count
				assert.Equal(t, sum, b.Total)
				assert.Positive(t, b.Count, "buckets are sparse")
				if i > 0 {
					assert.True(t, got[i-1].Key.Before(b.Key), "keys ascend")
				}
			}
			assert.Equal(t, len(ts), sum)
		})
	}
}

func TestCountOverTime_Empty(t *testing.T) {
	got := CountOverTime(nil, Day)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCountOverTime_Single(t *testing.T) {
	got := CountOverTime([]time.Time{time.Date(2024, 5, 5, 5, 5, 5, 0, time.UTC)}, Day)
	assert.Equal(t, []domain.TimeBucket{{Key: day(2024, 5, 5), Count: 1, Total: 1}}, got)
}

func TestGranularity_Truncate(t *testing.T) {
	// 2024-01-03 is a Wednesday.
	ts := time.Date(2024, 1, 3, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, day(2024, 1, 3), Day.Truncate(ts))
	assert.Equal(t, day(2024, 1, 1), Week.Truncate(ts))
	assert.Equal(t, day(2024, 1, 1), Month.Truncate(ts))

	sunday := time.Date(2024, 1, 7, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, day(2024, 1, 1), Week.Truncate(sunday))
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity("week")
	require.NoError(t, err)
	assert.Equal(t, Week, g)

	_, err = ParseGranularity("fortnight")
	assert.Error(t, err)
}

func TestPointsOverTime(t *testing.T) {
	ts := []time.Time{day(2024, 1, 8), day(2024, 1, 1), day(2024, 1, 9)}
	got, err := PointsOverTime(ts, []int64{5, 3, 7}, Week)
	require.NoError(t, err)
	assert.Equal(t, []domain.Point{
		{Time: day(2024, 1, 1), Value: 3},
		{Time: day(2024, 1, 8), Value: 12},
	}, got)

	_, err = PointsOverTime(ts, []int64{1}, Week)
	var mismatch *domain.LengthMismatchError
	assert.ErrorAs(t, err, &mismatch)
}
