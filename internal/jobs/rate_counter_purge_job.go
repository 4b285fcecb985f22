package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
)

// DefaultPurgeSpec runs the purge every ten minutes.
const DefaultPurgeSpec = "0 */10 * * * *"

// CounterPurger deletes rate counter windows that ended before now.
type CounterPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// RateCounterPurgeJob keeps the rate_counters table small by deleting expired windows.
// Expired rows never affect a limit decision, so a missed run only costs disk space.
type RateCounterPurgeJob struct {
	purger CounterPurger
	clock  clockwork.Clock
	spec   string
	cron   *cron.Cron
	logger *slog.Logger
}

// NewRateCounterPurgeJob creates the purge job. An empty spec falls back to DefaultPurgeSpec.
// Specs use the six-field form with seconds.
func NewRateCounterPurgeJob(purger CounterPurger, clock clockwork.Clock, spec string, logger *slog.Logger) *RateCounterPurgeJob {
	if spec == "" {
		spec = DefaultPurgeSpec
	}
	return &RateCounterPurgeJob{
		purger: purger,
		clock:  clock,
		spec:   spec,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "rate_counter_purge_job"),
	}
}

// Start schedules the job.
func (j *RateCounterPurgeJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Rate counter purge job started", "spec", j.spec)
	return nil
}

// Run performs one purge pass.
func (j *RateCounterPurgeJob) Run(ctx context.Context) {
	deleted, err := j.purger.PurgeExpired(ctx, j.clock.Now())
	if err != nil {
		j.logger.ErrorContext(ctx, "Rate counter purge failed", "error", err)
		return
	}
	if deleted > 0 {
		j.logger.DebugContext(ctx, "Expired rate counters purged", "deleted", deleted)
	}
}

// Stop waits for a running pass to finish.
func (j *RateCounterPurgeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Rate counter purge job stopped")
}
