package usecase

import (
	"context"
	"net/url"

	"github.com/naka-gawa/repo-metrics/internal/aggregate"
	"github.com/naka-gawa/repo-metrics/internal/domain"
	"github.com/naka-gawa/repo-metrics/internal/extract"
	"github.com/naka-gawa/repo-metrics/internal/gateway"
	"github.com/sirupsen/logrus"
)

// ContributorDetail is one row of the contributor table.
type ContributorDetail struct {
	Login        string `json:"username"`
	LastActive   string `json:"last_active"`
	TotalCommits int64  `json:"total_commits"`
}

// ContributorsView is the data of the contributors page.
type ContributorsView struct {
	Repository string
	Ranking    *domain.Result
	Details    []ContributorDetail
}

// CommitsView is the data of the commit frequency page.
type CommitsView struct {
	Repository     string
	Timeline       *domain.Result
	PerContributor *domain.Result
	Summary        aggregate.Summary
}

// Dashboard builds the views of the web dashboard.
type Dashboard struct {
	fetcher gateway.Fetcher
	repo    domain.Repository
	topN    int
	logger  logrus.FieldLogger
}

// NewDashboard creates a new Dashboard instance.
func NewDashboard(fetcher gateway.Fetcher, repo domain.Repository, topN int, logger logrus.FieldLogger) *Dashboard {
	return &Dashboard{
		fetcher: fetcher,
		repo:    repo,
		topN:    topN,
		logger:  logger.WithField("repository", repo.FullName()),
	}
}

// Contributors ranks the top contributors and lists every contributor with the
// date their profile was last updated and their commit count.
func (d *Dashboard) Contributors(ctx context.Context) (*ContributorsView, error) {
	d.logger.Debug("Usecase: Building contributors view...")
	contributors, err := contributorsSource.Fetch(ctx, d.fetcher, d.repo)
	if err != nil {
		return nil, err
	}
	ranking, err := TopContributors(d.topN).Aggregate(contributors)
	if err != nil {
		return nil, err
	}

	logins, err := extract.Strings(contributors, "login")
	if err != nil {
		return nil, err
	}
	totals, err := extract.Ints(contributors, "contributions")
	if err != nil {
		return nil, err
	}

	details := make([]ContributorDetail, 0, len(contributors))
	for i, login := range logins {
		d.logger.Debugf("  Fetching user %s (%d/%d)...", login, i+1, len(logins))
		user, err := d.fetcher.FetchRecord(ctx, "users/"+url.PathEscape(login))
		if err != nil {
			return nil, err
		}
		updated, err := extract.Timestamps(domain.Collection{user}, "updated_at")
		if err != nil {
			return nil, err
		}
		details = append(details, ContributorDetail{
			Login:        login,
			LastActive:   updated[0].Format("2006-01-02"),
			TotalCommits: totals[i],
		})
	}

	return &ContributorsView{Repository: d.repo.FullName(), Ranking: ranking, Details: details}, nil
}

// Commits counts commits per day and lists the commit total of every
// contributor.
func (d *Dashboard) Commits(ctx context.Context) (*CommitsView, error) {
	d.logger.Debug("Usecase: Building commits view...")
	timeline, err := CommitsOverTime().Run(ctx, d.fetcher, d.repo)
	if err != nil {
		return nil, err
	}
	perContributor, err := ContributorTotals().Run(ctx, d.fetcher, d.repo)
	if err != nil {
		return nil, err
	}
	summary, err := aggregate.Summarize(timeline.Timeline)
	if err != nil {
		return nil, err
	}
	return &CommitsView{
		Repository:     d.repo.FullName(),
		Timeline:       timeline,
		PerContributor: perContributor,
		Summary:        summary,
	}, nil
}
