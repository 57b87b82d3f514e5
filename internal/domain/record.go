// Package domain contains the core data structures of the metrics pipeline:
// the raw records fetched from GitHub, the series extracted from them and the
// aggregates derived from those series.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the only timestamp shape accepted by the extractor.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Record is one JSON object returned by the GitHub API. No schema is enforced
// beyond the fields a given report reads.
type Record map[string]any

// Collection is the ordered list of records returned by one query.
type Collection []Record

// Series holds one extracted scalar per record, positionally aligned with the
// collection it was extracted from.
type Series[T any] []T

// Repository identifies the repository every report is scoped to.
type Repository struct {
	Owner string
	Name  string
}

// FullName returns "owner/name".
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// Path returns the API path of a resource under the repository namespace.
// An empty resource yields the repository metadata path.
func (r Repository) Path(resource string) string {
	base := fmt.Sprintf("repos/%s/%s", r.Owner, r.Name)
	resource = strings.Trim(resource, "/")
	if resource == "" {
		return base
	}
	return base + "/" + resource
}

// Entry is one bucket of a keyed aggregate.
type Entry struct {
	Key   string `json:"key"`
	Value int64  `json:"value"`
}

// Stack is one key of a multi-column aggregate, e.g. additions and deletions
// of a single contributor.
type Stack struct {
	Key    string  `json:"key"`
	Values []int64 `json:"values"`
}

// TimeBucket is one bucket of a cumulative-count-over-time aggregate.
type TimeBucket struct {
	Key   time.Time `json:"key"`
	Count int       `json:"count"`
	Total int       `json:"total"`
}

// Point is one sample of a time series that is not a count, such as weekly
// additions.
type Point struct {
	Time  time.Time `json:"time"`
	Value int64     `json:"value"`
}
