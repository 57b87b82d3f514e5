package aggregate

import "github.com/naka-gawa/repo-metrics/internal/domain"

// Bucket names of the partition schemes.
const (
	BucketOpen           = "open"
	BucketClosed         = "closed"
	BucketClosedUnmerged = "closed_unmerged"
	BucketMerged         = "merged"
)

// Scheme is a fixed, ordered set of mutually exclusive buckets and the rule
// assigning a (state, flag) pair to one of them.
type Scheme struct {
	Buckets  []string
	Classify func(state string, flag bool) (string, bool)
}

// PullRequestScheme splits pull requests into open, closed without merge and
// merged. The flag is "has a merge timestamp".
var PullRequestScheme = Scheme{
	Buckets: []string{BucketOpen, BucketClosedUnmerged, BucketMerged},
	Classify: func(state string, merged bool) (string, bool) {
		switch {
		case state == "open":
			return BucketOpen, true
		case state == "closed" && merged:
			return BucketMerged, true
		case state == "closed":
			return BucketClosedUnmerged, true
		}
		return "", false
	},
}

// IssueScheme splits issues into open and closed. The flag is ignored.
var IssueScheme = Scheme{
	Buckets: []string{BucketOpen, BucketClosed},
	Classify: func(state string, _ bool) (string, bool) {
		switch state {
		case "open":
			return BucketOpen, true
		case "closed":
			return BucketClosed, true
		}
		return "", false
	},
}

// Partition counts every record into exactly one bucket of the scheme.
// flags may be nil when the scheme ignores it. Non-empty input reports every
// bucket in scheme order, zeros included.
func Partition(states []string, flags []bool, scheme Scheme) ([]domain.Entry, error) {
	if flags != nil && len(flags) != len(states) {
		return nil, &domain.LengthMismatchError{Want: len(states), Got: len(flags)}
	}
	if len(states) == 0 {
		return []domain.Entry{}, nil
	}

	counts := make(map[string]int64, len(scheme.Buckets))
	for i, s := range states {
		flag := flags != nil && flags[i]
		b, ok := scheme.Classify(s, flag)
		if !ok {
			return nil, &domain.UnclassifiedError{Index: i, State: s}
		}
		counts[b]++
	}

	out := make([]domain.Entry, 0, len(scheme.Buckets))
	for _, b := range scheme.Buckets {
		out = append(out, domain.Entry{Key: b, Value: counts[b]})
	}
	return out, nil
}
