// Package jobs provides scheduled background tasks for the crowdship system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the bidding lifecycle.
//
// # Available Jobs
//
// 1. BiddingDeadlineJob - Runs every five minutes to warn senders about
// approaching bid deadlines, extend deadlines on parcels without bids and
// expire bidding windows that ran out of extensions
// 2. RouteCleanupJob - Runs hourly to deactivate routes whose trip date has
// passed and to withdraw the open bids attached to them
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(biddingDeadlinesHandler, routeCleanupHandler, jobLock, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// BiddingDeadlineJob uses the cron expression "0 */5 * * * *" (every five
// minutes) and RouteCleanupJob uses "0 0 * * * *" (top of every hour).
//
// # Coordination
//
// Every tick is guarded by a Redis-backed JobLock so that only one instance
// processes a scheduled run when several replicas are deployed. A tick that
// cannot take the lock is skipped silently.
//
// # Error Handling
//
// - Handler errors abort the current pass and are logged; the next tick
// starts from a clean transaction
// - Failed job starts will stop any already running jobs
package jobs
