package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/naka-gawa/repo-metrics/internal/domain"
	"github.com/naka-gawa/repo-metrics/internal/gateway"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Runner is the use case for running a sequence of reports against one
// repository.
type Runner struct {
	fetcher     gateway.Fetcher
	repo        domain.Repository
	concurrency int
	logger      logrus.FieldLogger
}

// NewRunner creates a new Runner instance. A concurrency below one is treated
// as one, which runs reports strictly in order.
func NewRunner(fetcher gateway.Fetcher, repo domain.Repository, concurrency int, logger logrus.FieldLogger) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{
		fetcher:     fetcher,
		repo:        repo,
		concurrency: concurrency,
		logger:      logger.WithField("repository", repo.FullName()),
	}
}

// Run executes every report and returns their results in report order.
// The first failure aborts the run; no partial result set is returned.
func (r *Runner) Run(ctx context.Context, reports []Report) ([]*domain.Result, error) {
	r.logger.Infof("Usecase: Running %d report(s)...", len(reports))

	results := make([]*domain.Result, len(reports))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.concurrency)

	for i, report := range reports {
		i, report := i, report
		if egCtx.Err() != nil {
			break
		}
		info := report.Describe()
		eg.Go(func() error {
			// A report queued behind a failed one is not started.
			if err := egCtx.Err(); err != nil {
				return err
			}
			log := r.logger.WithField("report", info.Name)
			log.Debugf("[%d/%d] Running report...", i+1, len(reports))
			start := time.Now()
			res, err := report.Run(egCtx, r.fetcher, r.repo)
			if err != nil {
				return fmt.Errorf("report %s: %w", info.Name, err)
			}
			log.WithField("elapsed", time.Since(start)).Debug("Report complete.")
			results[i] = res
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	r.logger.Info("Usecase: All reports complete.")
	return results, nil
}
