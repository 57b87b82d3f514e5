package aggregate

import (
	"testing"

	"github.com/naka-gawa/repo-metrics/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition_PullRequests(t *testing.T) {
	got, err := Partition([]string{"open", "closed", "closed"}, []bool{false, false, true}, PullRequestScheme)
	require.NoError(t, err)
	assert.Equal(t, []domain.Entry{
		{Key: BucketOpen, Value: 1},
		{Key: BucketClosedUnmerged, Value: 1},
		{Key: BucketMerged, Value: 1},
	}, got)
}

func TestPartition_Issues(t *testing.T) {
	states := []string{"open", "open", "closed", "open"}
	got, err := Partition(states, nil, IssueScheme)
	require.NoError(t, err)
	assert.Equal(t, []domain.Entry{{Key: BucketOpen, Value: 3}, {Key: BucketClosed, Value: 1}}, got)
}

func TestPartition_SumEqualsRecords(t *testing.T) {
	states := []string{"closed", "closed", "open", "closed", "open"}
	flags := []bool{true, false, true, true, false}
	got, err := Partition(states, flags, PullRequestScheme)
	require.NoError(t, err)

	var total int64
	for _, e := range got {
		total += e.Value
	}
	assert.Equal(t, int64(len(states)), total)
	assert.Len(t, got, len(PullRequestScheme.Buckets), "zero buckets are reported")
}

func TestPartition_Empty(t *testing.T) {
	got, err := Partition(nil, nil, PullRequestScheme)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPartition_Errors(t *testing.T) {
	_, err := Partition([]string{"open", "draft"}, nil, IssueScheme)
	var unclassified *domain.UnclassifiedError
	require.ErrorAs(t, err, &unclassified)
	assert.Equal(t, 1, unclassified.Index)

	_, err = Partition([]string{"open"}, []bool{true, false}, PullRequestScheme)
	var mismatch *domain.LengthMismatchError
	assert.ErrorAs(t, err, &mismatch)
}
