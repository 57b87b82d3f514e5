package usecase

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/naka-gawa/repo-metrics/internal/domain"
	"github.com/naka-gawa/repo-metrics/internal/extract"
	"github.com/naka-gawa/repo-metrics/internal/gateway"
)

// StatsEndpoint names a statistics endpoint whose payload the gateway reshapes
// into records.
type StatsEndpoint string

const (
	StatsCodeFrequency StatsEndpoint = "code_frequency"
	StatsContributors  StatsEndpoint = "contributors"
)

// Source describes where the records of a report come from.
//
// Resource and Detail are paths relative to the repository namespace unless
// they start with "/", in which case they are API-absolute ("/users/{login}").
// Detail is a template fetched once per listed record; "{field}" placeholders
// are filled from that record and the detail object replaces it in the
// collection, keeping positions aligned. Records in which the Skip field is
// present and non-null are dropped from the listing.
type Source struct {
	Resource string
	Query    url.Values
	Detail   string
	Stats    StatsEndpoint
	Skip     string
}

var placeholder = regexp.MustCompile(`\{([A-Za-z0-9_.]+)\}`)

func (s Source) resolve(repo domain.Repository, p string) string {
	if strings.HasPrefix(p, "/") {
		return strings.TrimPrefix(p, "/")
	}
	return repo.Path(p)
}

// Fetch returns the records described by the source.
func (s Source) Fetch(ctx context.Context, f gateway.Fetcher, repo domain.Repository) (domain.Collection, error) {
	switch s.Stats {
	case StatsCodeFrequency:
		return f.FetchCodeFrequency(ctx, repo)
	case StatsContributors:
		return f.FetchContributorStats(ctx, repo)
	case "":
	default:
		return nil, fmt.Errorf("unknown statistics endpoint %q", s.Stats)
	}

	c, err := f.FetchCollection(ctx, s.resolve(repo, s.Resource), s.Query)
	if err != nil {
		return nil, err
	}
	if s.Skip != "" {
		c = skip(c, s.Skip)
	}
	if s.Detail == "" {
		return c, nil
	}

	details := make(domain.Collection, 0, len(c))
	for i, rec := range c {
		p, err := fill(s.Detail, i, rec)
		if err != nil {
			return nil, err
		}
		d, err := f.FetchRecord(ctx, s.resolve(repo, p))
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}

func skip(c domain.Collection, field string) domain.Collection {
	kept := make(domain.Collection, 0, len(c))
	for _, rec := range c {
		if v, ok := extract.Lookup(rec, field); ok && v != nil {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

// fill replaces every placeholder of tmpl with the matching field of record i.
func fill(tmpl string, i int, rec domain.Record) (string, error) {
	var err error
	out := placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		field := m[1 : len(m)-1]
		v, ok := extract.Lookup(rec, field)
		if !ok || v == nil {
			if err == nil {
				err = &domain.MissingFieldError{Field: field, Index: i}
			}
			return m
		}
		switch x := v.(type) {
		case string:
			return url.PathEscape(x)
		case float64:
			return fmt.Sprintf("%.0f", x)
		default:
			return fmt.Sprint(x)
		}
	})
	return out, err
}

// FetchObject returns the single object at the source's resource.
func (s Source) FetchObject(ctx context.Context, f gateway.Fetcher, repo domain.Repository) (domain.Record, error) {
	return f.FetchRecord(ctx, s.resolve(repo, s.Resource))
}
