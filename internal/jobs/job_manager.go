package jobs

import (
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	rateCounterPurgeJob *RateCounterPurgeJob
}

// NewJobManager creates a job manager with every background job of the service.
func NewJobManager(purger CounterPurger, clock clockwork.Clock, purgeSpec string, logger *slog.Logger) *JobManager {
	return &JobManager{
		rateCounterPurgeJob: NewRateCounterPurgeJob(purger, clock, purgeSpec, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.rateCounterPurgeJob.Start(); err != nil {
		return fmt.Errorf("failed to start rate counter purge job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.rateCounterPurgeJob.Stop()
}
