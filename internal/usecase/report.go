// Package usecase contains the business logic of the application: declarative
// report descriptions and the orchestration of fetch, extract and aggregate
// for each of them.
package usecase

import (
	"context"
	"fmt"

	"github.com/naka-gawa/repo-metrics/internal/aggregate"
	"github.com/naka-gawa/repo-metrics/internal/domain"
	"github.com/naka-gawa/repo-metrics/internal/extract"
	"github.com/naka-gawa/repo-metrics/internal/gateway"
)

// Info names a report and labels its chart.
type Info struct {
	Name   string
	Title  string
	XLabel string
	YLabel string
}

// Describe returns the report's info.
func (i Info) Describe() Info { return i }

func (i Info) result(kind domain.ChartKind) *domain.Result {
	return &domain.Result{Name: i.Name, Title: i.Title, Kind: kind, XLabel: i.XLabel, YLabel: i.YLabel}
}

// Report is one named fetch, extract and aggregate sequence.
type Report interface {
	Describe() Info
	Run(ctx context.Context, f gateway.Fetcher, repo domain.Repository) (*domain.Result, error)
}

// TimelineReport counts records over time, e.g. commits per day.
type TimelineReport struct {
	Info
	Source      Source
	TimeField   string
	Granularity aggregate.Granularity
}

func (r TimelineReport) Run(ctx context.Context, f gateway.Fetcher, repo domain.Repository) (*domain.Result, error) {
	c, err := r.Source.Fetch(ctx, f, repo)
	if err != nil {
		return nil, err
	}
	return r.Aggregate(c)
}

// Aggregate builds the report from already fetched records.
func (r TimelineReport) Aggregate(c domain.Collection) (*domain.Result, error) {
	ts, err := extract.Timestamps(c, r.TimeField)
	if err != nil {
		return nil, err
	}
	res := r.result(domain.ChartLine)
	res.Timeline = aggregate.CountOverTime(ts, r.Granularity)
	return res, nil
}

// RankingReport groups records by KeyField and sums ValueField per key. An
// empty ValueField counts records instead. TopN > 0 ranks and truncates.
type RankingReport struct {
	Info
	Source     Source
	KeyField   string
	ValueField string
	TopN       int
	// Chart is domain.ChartBar unless set.
	Chart domain.ChartKind
}

func (r RankingReport) Run(ctx context.Context, f gateway.Fetcher, repo domain.Repository) (*domain.Result, error) {
	c, err := r.Source.Fetch(ctx, f, repo)
	if err != nil {
		return nil, err
	}
	return r.Aggregate(c)
}

// Aggregate builds the report from already fetched records.
func (r RankingReport) Aggregate(c domain.Collection) (*domain.Result, error) {
	keys, err := extract.Strings(c, r.KeyField)
	if err != nil {
		return nil, err
	}

	var entries []domain.Entry
	if r.ValueField == "" {
		entries = aggregate.Count(keys)
	} else {
		values, err := extract.Ints(c, r.ValueField)
		if err != nil {
			return nil, err
		}
		if entries, err = aggregate.GroupedSum(keys, values); err != nil {
			return nil, err
		}
	}
	if r.TopN > 0 {
		entries = aggregate.TopN(entries, r.TopN)
	}

	kind := r.Chart
	if kind == "" {
		kind = domain.ChartBar
	}
	res := r.result(kind)
	res.Entries = entries
	return res, nil
}

// PartitionReport counts records into the fixed buckets of a status scheme.
// FlagField may be empty when the scheme ignores the flag.
type PartitionReport struct {
	Info
	Source     Source
	StateField string
	FlagField  string
	Scheme     aggregate.Scheme
}

func (r PartitionReport) Run(ctx context.Context, f gateway.Fetcher, repo domain.Repository) (*domain.Result, error) {
	c, err := r.Source.Fetch(ctx, f, repo)
	if err != nil {
		return nil, err
	}
	return r.Aggregate(c)
}

// Aggregate builds the report from already fetched records.
func (r PartitionReport) Aggregate(c domain.Collection) (*domain.Result, error) {
	states, err := extract.Strings(c, r.StateField)
	if err != nil {
		return nil, err
	}
	var flags []bool
	if r.FlagField != "" {
		if flags, err = extract.Present(c, r.FlagField); err != nil {
			return nil, err
		}
	}
	entries, err := aggregate.Partition(states, flags, r.Scheme)
	if err != nil {
		return nil, err
	}
	res := r.result(domain.ChartBar)
	res.Entries = entries
	return res, nil
}

// Column names of churn results.
const (
	ColumnAdditions = "additions"
	ColumnDeletions = "deletions"
)

// ChurnReport sums additions and deletions, either per time bucket (TimeField
// set, drawn as an area chart with deletions below the axis) or per key
// (KeyField set, drawn as stacked bars).
type ChurnReport struct {
	Info
	Source      Source
	TimeField   string
	KeyField    string
	Granularity aggregate.Granularity
}

func (r ChurnReport) Run(ctx context.Context, f gateway.Fetcher, repo domain.Repository) (*domain.Result, error) {
	c, err := r.Source.Fetch(ctx, f, repo)
	if err != nil {
		return nil, err
	}
	return r.Aggregate(c)
}

// Aggregate builds the report from already fetched records.
func (r ChurnReport) Aggregate(c domain.Collection) (*domain.Result, error) {
	additions, err := extract.Ints(c, ColumnAdditions)
	if err != nil {
		return nil, err
	}
	deletions, err := extract.Ints(c, ColumnDeletions)
	if err != nil {
		return nil, err
	}

	switch {
	case r.TimeField != "":
		ts, err := extract.Timestamps(c, r.TimeField)
		if err != nil {
			return nil, err
		}
		added, err := aggregate.PointsOverTime(ts, additions, r.Granularity)
		if err != nil {
			return nil, err
		}
		deleted, err := aggregate.PointsOverTime(ts, deletions, r.Granularity)
		if err != nil {
			return nil, err
		}
		res := r.result(domain.ChartArea)
		res.Columns = []string{ColumnAdditions, ColumnDeletions}
		if len(c) > 0 {
			res.Series = map[string][]domain.Point{
				ColumnAdditions: added,
				ColumnDeletions: aggregate.NegativeMagnitudes(deleted),
			}
		}
		return res, nil
	case r.KeyField != "":
		keys, err := extract.Strings(c, r.KeyField)
		if err != nil {
			return nil, err
		}
		stacks, err := aggregate.Stack(keys, additions, deletions)
		if err != nil {
			return nil, err
		}
		res := r.result(domain.ChartStackedBar)
		res.Columns = []string{ColumnAdditions, ColumnDeletions}
		res.Stacks = stacks
		return res, nil
	}
	return nil, fmt.Errorf("report %s: neither a time nor a key field is set", r.Name)
}

// DistributionReport reads an object whose keys are categories and whose
// values are sizes, such as the languages endpoint.
type DistributionReport struct {
	Info
	Source Source
}

func (r DistributionReport) Run(ctx context.Context, f gateway.Fetcher, repo domain.Repository) (*domain.Result, error) {
	rec, err := r.Source.FetchObject(ctx, f, repo)
	if err != nil {
		return nil, err
	}
	entries, err := extract.Pairs(rec)
	if err != nil {
		return nil, err
	}
	res := r.result(domain.ChartPie)
	res.Entries = entries
	return res, nil
}

// TrafficReport compares total and unique views and clones.
type TrafficReport struct {
	Info
}

func (r TrafficReport) Run(ctx context.Context, f gateway.Fetcher, repo domain.Repository) (*domain.Result, error) {
	res := r.result(domain.ChartBar)
	for _, kind := range []struct{ resource, label, uniqueLabel string }{
		{"traffic/views", "Views", "Unique visitors"},
		{"traffic/clones", "Clones", "Unique cloners"},
	} {
		rec, err := f.FetchRecord(ctx, repo.Path(kind.resource))
		if err != nil {
			return nil, err
		}
		count, err := extract.Int(rec, "count")
		if err != nil {
			return nil, err
		}
		uniques, err := extract.Int(rec, "uniques")
		if err != nil {
			return nil, err
		}
		res.Entries = append(res.Entries,
			domain.Entry{Key: kind.label, Value: count},
			domain.Entry{Key: kind.uniqueLabel, Value: uniques},
		)
	}
	return res, nil
}

// LicenseReport describes the repository license. A repository without a
// license is a valid, textual result.
type LicenseReport struct {
	Info
}

func (r LicenseReport) Run(ctx context.Context, f gateway.Fetcher, repo domain.Repository) (*domain.Result, error) {
	rec, err := f.FetchRecord(ctx, repo.Path(""))
	if err != nil {
		return nil, err
	}
	res := r.result(domain.ChartText)
	name, ok, err := extract.OptionalString(rec, "license.name")
	if err != nil {
		return nil, err
	}
	if !ok {
		res.Lines = []string{"Repository does not have a specified license."}
		return res, nil
	}
	res.Lines = []string{"Repository License: " + name}
	if u, ok, err := extract.OptionalString(rec, "license.url"); err != nil {
		return nil, err
	} else if ok {
		res.Lines = append(res.Lines, "License URL: "+u)
	}
	return res, nil
}
