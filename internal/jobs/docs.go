// Package jobs provides scheduled background tasks for the print coordination service.
//
// Jobs are built on github.com/robfig/cron/v3 with the six-field (seconds) parser.
//
// # Available Jobs
//
// 1. RateCounterPurgeJob - Deletes rate limiter windows that have expired
//
// # Usage
//
//	jobManager := jobs.NewJobManager(rateCounter, clock, cfg.RateCounterPurgeSpec, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed pass is logged and retried on the next tick. A job that fails to start
// makes StartAll return an error.
package jobs
