package aggregate

import (
	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/repo-metrics/internal/domain"
)

// Summary describes the per-bucket counts of a timeline.
type Summary struct {
	Buckets int     `json:"buckets"`
	Total   int     `json:"total"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	P90     float64 `json:"p90"`
	Max     float64 `json:"max"`
}

// Summarize computes summary statistics over the bucket counts of a timeline.
// An empty timeline yields the zero Summary.
func Summarize(timeline []domain.TimeBucket) (Summary, error) {
	if len(timeline) == 0 {
		return Summary{}, nil
	}
	data := make(stats.Float64Data, len(timeline))
	for i, b := range timeline {
		data[i] = float64(b.Count)
	}

	var s Summary
	var err error
	s.Buckets = len(timeline)
	s.Total = timeline[len(timeline)-1].Total
	if s.Mean, err = data.Mean(); err != nil {
		return Summary{}, err
	}
	if s.Median, err = data.Median(); err != nil {
		return Summary{}, err
	}
	if s.P90, err = data.Percentile(90); err != nil {
		return Summary{}, err
	}
	if s.Max, err = data.Max(); err != nil {
		return Summary{}, err
	}
	return s, nil
}
