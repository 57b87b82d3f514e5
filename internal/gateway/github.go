// Package gateway provides a gateway to the GitHub REST API. It fetches raw
// records for the metrics pipeline and hides the client, transport and
// pagination details from the use cases.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/repo-metrics/internal/config"
	"github.com/naka-gawa/repo-metrics/internal/domain"
	"github.com/rcrowley/go-metrics"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
)

// Fetcher defines the behavior of a gateway for fetching records from GitHub.
type Fetcher interface {
	// FetchCollection returns every record of a list endpoint, following
	// next-page links up to the configured page cap.
	FetchCollection(ctx context.Context, path string, query url.Values) (domain.Collection, error)
	// FetchRecord returns the object of a single-object endpoint.
	FetchRecord(ctx context.Context, path string) (domain.Record, error)
	// FetchCodeFrequency returns one record per week with "week",
	// "additions" and "deletions".
	FetchCodeFrequency(ctx context.Context, repo domain.Repository) (domain.Collection, error)
	// FetchContributorStats returns one record per contributor and week with
	// "author.login", "week", "additions", "deletions" and "commits".
	FetchContributorStats(ctx context.Context, repo domain.Repository) (domain.Collection, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient *github.Client
	logger     logrus.FieldLogger
	perPage    int
	maxPages   int

	requests metrics.Counter
	failures metrics.Counter
	latency  metrics.Timer
}

// NewGitHubGateway creates a gateway authenticated with the config's bearer
// token. Request metrics are registered in registry.
func NewGitHubGateway(cfg config.Config, logger logrus.FieldLogger, registry metrics.Registry) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	if cfg.BaseURL != "" && cfg.BaseURL != config.DefaultBaseURL {
		baseURL, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL %q: %w", cfg.BaseURL, err)
		}
		restClient.BaseURL = baseURL
	}
	return newGateway(restClient, cfg, logger, registry), nil
}

func newGateway(restClient *github.Client, cfg config.Config, logger logrus.FieldLogger, registry metrics.Registry) *GitHubGateway {
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = config.DefaultPerPage
	}
	return &GitHubGateway{
		restClient: restClient,
		logger:     logger.WithField("component", "gateway"),
		perPage:    perPage,
		maxPages:   cfg.MaxPages,
		requests:   metrics.GetOrRegisterCounter("gateway.requests", registry),
		failures:   metrics.GetOrRegisterCounter("gateway.errors", registry),
		latency:    metrics.GetOrRegisterTimer("gateway.latency", registry),
	}
}

func (g *GitHubGateway) FetchCollection(ctx context.Context, path string, query url.Values) (domain.Collection, error) {
	path = strings.TrimPrefix(path, "/")
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	q.Set("per_page", strconv.Itoa(g.perPage))

	log := g.logger.WithField("resource", path)
	log.Debug("Fetching collection...")
	all := make(domain.Collection, 0)
	for page := 1; ; page++ {
		var records domain.Collection
		resp, err := g.get(ctx, path+"?"+q.Encode(), &records)
		if err != nil {
			return nil, failed(path, resp, err)
		}
		all = append(all, records...)
		if resp.NextPage == 0 {
			break
		}
		if g.maxPages > 0 && page >= g.maxPages {
			log.Warnf("Stopping after %d page(s); more records are available.", page)
			break
		}
		q.Set("page", strconv.Itoa(resp.NextPage))
		log.Debugf("  Fetching page %d...", resp.NextPage)
	}
	log.Debugf("Completed fetching %d record(s).", len(all))
	return all, nil
}

func (g *GitHubGateway) FetchRecord(ctx context.Context, path string) (domain.Record, error) {
	path = strings.TrimPrefix(path, "/")
	g.logger.WithField("resource", path).Debug("Fetching record...")
	var rec domain.Record
	resp, err := g.get(ctx, path, &rec)
	if err != nil {
		return nil, failed(path, resp, err)
	}
	if rec == nil {
		// A literal JSON null decodes without error.
		return nil, &domain.FetchFailedError{Resource: path, Status: resp.StatusCode, Err: fmt.Errorf("empty response body")}
	}
	return rec, nil
}

func (g *GitHubGateway) FetchCodeFrequency(ctx context.Context, repo domain.Repository) (domain.Collection, error) {
	path := repo.Path("stats/code_frequency")
	g.logger.WithField("resource", path).Debug("Fetching code frequency...")
	start := time.Now()
	g.requests.Inc(1)
	weeks, resp, err := g.restClient.Repositories.ListCodeFrequency(ctx, repo.Owner, repo.Name)
	g.latency.UpdateSince(start)
	if err != nil {
		g.failures.Inc(1)
		return nil, failed(path, resp, err)
	}

	out := make(domain.Collection, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, domain.Record{
			"week":      formatWeek(w.GetWeek()),
			"additions": int64(w.GetAdditions()),
			"deletions": int64(w.GetDeletions()),
		})
	}
	return out, nil
}

func (g *GitHubGateway) FetchContributorStats(ctx context.Context, repo domain.Repository) (domain.Collection, error) {
	path := repo.Path("stats/contributors")
	g.logger.WithField("resource", path).Debug("Fetching contributor stats...")
	start := time.Now()
	g.requests.Inc(1)
	contributors, resp, err := g.restClient.Repositories.ListContributorsStats(ctx, repo.Owner, repo.Name)
	g.latency.UpdateSince(start)
	if err != nil {
		g.failures.Inc(1)
		return nil, failed(path, resp, err)
	}

	out := make(domain.Collection, 0)
	for _, c := range contributors {
		author := map[string]any{"login": c.GetAuthor().GetLogin()}
		for _, w := range c.Weeks {
			out = append(out, domain.Record{
				"author":    author,
				"week":      formatWeek(w.GetWeek()),
				"additions": int64(w.GetAdditions()),
				"deletions": int64(w.GetDeletions()),
				"commits":   int64(w.GetCommits()),
			})
		}
	}
	return out, nil
}

// RequestStats summarizes the requests a gateway has issued.
type RequestStats struct {
	Requests    int64
	Errors      int64
	MeanLatency time.Duration
	MaxLatency  time.Duration
}

// Stats returns the request counters recorded so far.
func (g *GitHubGateway) Stats() RequestStats {
	latency := g.latency.Snapshot()
	return RequestStats{
		Requests:    g.requests.Count(),
		Errors:      g.failures.Count(),
		MeanLatency: time.Duration(latency.Mean()),
		MaxLatency:  time.Duration(latency.Max()),
	}
}

// get issues one GET and decodes the JSON body into v.
func (g *GitHubGateway) get(ctx context.Context, u string, v any) (*github.Response, error) {
	req, err := g.restClient.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	g.requests.Inc(1)
	resp, err := g.restClient.Do(ctx, req, v)
	g.latency.UpdateSince(start)
	if err != nil {
		g.failures.Inc(1)
	}
	return resp, err
}

// failed wraps err as a FetchFailedError carrying the response status, if any.
func failed(resource string, resp *github.Response, err error) error {
	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}
	return &domain.FetchFailedError{Resource: resource, Status: status, Err: err}
}

func formatWeek(ts github.Timestamp) string {
	return ts.UTC().Format(domain.TimestampLayout)
}
