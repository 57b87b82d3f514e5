package usecase

import (
	"fmt"
	"net/url"

	"github.com/naka-gawa/repo-metrics/internal/aggregate"
	"github.com/naka-gawa/repo-metrics/internal/domain"
)

// Report names of the standard catalog.
const (
	ReportCommitsOverTime          = "commits-over-time"
	ReportCommitsPerContributor    = "commits-per-contributor"
	ReportTopContributors          = "top-contributors"
	ReportCodeChangesOverTime      = "code-changes-over-time"
	ReportLineChangesByContributor = "line-changes-by-contributor"
	ReportPullRequestsOverTime     = "pull-requests-over-time"
	ReportPullRequestStatus        = "pull-request-status"
	ReportPullRequestContributions = "pull-request-contributions"
	ReportIssuesOverTime           = "issues-over-time"
	ReportIssueStatus              = "issue-status"
	ReportCommentsOverTime         = "comments-over-time"
	ReportCommentsByContributor    = "comments-by-contributor"
	ReportEventsOverTime           = "events-over-time"
	ReportEventsByType             = "events-by-type"
	ReportLanguages                = "languages"
	ReportLicense                  = "license"
	ReportTraffic                  = "traffic"
)

var (
	commitsSource      = Source{Resource: "commits"}
	contributorsSource = Source{Resource: "contributors"}

	// The list endpoints default to open items only.
	pullsSource = Source{Resource: "pulls", Query: url.Values{"state": {"all"}}}

	// The issues listing also returns pull requests, marked by "pull_request".
	issuesSource = Source{Resource: "issues", Query: url.Values{"state": {"all"}}, Skip: "pull_request"}

	commentsSource = Source{Resource: "issues/comments"}
	eventsSource   = Source{Resource: "events"}
)

// CommitsOverTime counts commits per day by author date.
func CommitsOverTime() TimelineReport {
	return TimelineReport{
		Info:      Info{Name: ReportCommitsOverTime, Title: "Commits Over Time", XLabel: "Date", YLabel: "Number of Commits"},
		Source:    commitsSource,
		TimeField: "commit.author.date",
	}
}

// TopContributors ranks contributors by their contribution count.
func TopContributors(topN int) RankingReport {
	return RankingReport{
		Info:       Info{Name: ReportTopContributors, Title: "Contributions Distribution Among Top Contributors"},
		Source:     contributorsSource,
		KeyField:   "login",
		ValueField: "contributions",
		TopN:       topN,
		Chart:      domain.ChartPie,
	}
}

// ContributorTotals lists every contributor's contribution count in API order.
func ContributorTotals() RankingReport {
	return RankingReport{
		Info:       Info{Name: "contributor-totals", Title: "Total Commits per Contributor", XLabel: "Contributor", YLabel: "Commits"},
		Source:     contributorsSource,
		KeyField:   "login",
		ValueField: "contributions",
	}
}

// Catalog returns the standard report sequence. topN bounds the top
// contributors ranking.
func Catalog(topN int) []Report {
	return []Report{
		CommitsOverTime(),
		RankingReport{
			Info:     Info{Name: ReportCommitsPerContributor, Title: "Commits per Contributor", XLabel: "Contributor", YLabel: "Number of Commits"},
			Source:   commitsSource,
			KeyField: "commit.author.name",
		},
		TopContributors(topN),
		// The API already reports one record per week, dated on its Sunday.
		ChurnReport{
			Info:        Info{Name: ReportCodeChangesOverTime, Title: "Code Changes Over Time", XLabel: "Date", YLabel: "Lines Changed"},
			Source:      Source{Stats: StatsCodeFrequency},
			TimeField:   "week",
			Granularity: aggregate.Day,
		},
		ChurnReport{
			Info:     Info{Name: ReportLineChangesByContributor, Title: "Contributions by Contributor (Additions and Deletions)", XLabel: "Contributor", YLabel: "Lines Changed"},
			Source:   Source{Stats: StatsContributors},
			KeyField: "author.login",
		},
		TimelineReport{
			Info:      Info{Name: ReportPullRequestsOverTime, Title: "Number of Pull Requests Over Time", XLabel: "Date", YLabel: "Number of Pull Requests"},
			Source:    pullsSource,
			TimeField: "created_at",
		},
		PartitionReport{
			Info:       Info{Name: ReportPullRequestStatus, Title: "Pull Request Status", XLabel: "Status", YLabel: "Number of Pull Requests"},
			Source:     pullsSource,
			StateField: "state",
			FlagField:  "merged_at",
			Scheme:     aggregate.PullRequestScheme,
		},
		ChurnReport{
			Info: Info{Name: ReportPullRequestContributions, Title: "Pull Request Contributions by Contributor", XLabel: "Contributor", YLabel: "Lines Changed"},
			// Only the single pull request endpoint carries line counts.
			Source:   Source{Resource: pullsSource.Resource, Query: pullsSource.Query, Detail: "pulls/{number}"},
			KeyField: "user.login",
		},
		TimelineReport{
			Info:      Info{Name: ReportIssuesOverTime, Title: "Number of Issues Created Over Time", XLabel: "Date", YLabel: "Number of Issues"},
			Source:    issuesSource,
			TimeField: "created_at",
		},
		PartitionReport{
			Info:       Info{Name: ReportIssueStatus, Title: "Issue Status", XLabel: "Status", YLabel: "Number of Issues"},
			Source:     issuesSource,
			StateField: "state",
			Scheme:     aggregate.IssueScheme,
		},
		TimelineReport{
			Info:      Info{Name: ReportCommentsOverTime, Title: "Number of Comments on Issues and Pull Requests Over Time", XLabel: "Date", YLabel: "Number of Comments"},
			Source:    commentsSource,
			TimeField: "created_at",
		},
		RankingReport{
			Info:     Info{Name: ReportCommentsByContributor, Title: "Comments by Contributor", XLabel: "Contributor", YLabel: "Number of Comments"},
			Source:   commentsSource,
			KeyField: "user.login",
		},
		TimelineReport{
			Info:      Info{Name: ReportEventsOverTime, Title: "Repository Events Over Time", XLabel: "Date", YLabel: "Number of Events"},
			Source:    eventsSource,
			TimeField: "created_at",
		},
		RankingReport{
			Info:     Info{Name: ReportEventsByType, Title: "Repository Events by Type", XLabel: "Event Type", YLabel: "Number of Events"},
			Source:   eventsSource,
			KeyField: "type",
		},
		DistributionReport{
			Info:   Info{Name: ReportLanguages, Title: "Language Distribution in Repository"},
			Source: Source{Resource: "languages"},
		},
		LicenseReport{Info: Info{Name: ReportLicense, Title: "Repository License"}},
		TrafficReport{Info: Info{Name: ReportTraffic, Title: "Repository Traffic: Views and Clones", XLabel: "Traffic Category", YLabel: "Count"}},
	}
}

// Select returns the reports whose names are listed, in catalog order. No
// names selects every report.
func Select(reports []Report, names []string) ([]Report, error) {
	if len(names) == 0 {
		return reports, nil
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var out []Report
	for _, r := range reports {
		if wanted[r.Describe().Name] {
			out = append(out, r)
			delete(wanted, r.Describe().Name)
		}
	}
	for n := range wanted {
		return nil, fmt.Errorf("unknown report %q", n)
	}
	return out, nil
}
