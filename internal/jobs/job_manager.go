package jobs

import (
	"fmt"
	"log/slog"

	"crowdship/internal/core/application/usecases/commands"
	"crowdship/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	biddingDeadlineJob *BiddingDeadlineJob
	routeCleanupJob    *RouteCleanupJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	biddingDeadlinesHandler commands.ProcessBiddingDeadlinesCommandHandler,
	routeCleanupHandler commands.CleanupExpiredRoutesCommandHandler,
	lock ports.JobLock,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		biddingDeadlineJob: NewBiddingDeadlineJob(biddingDeadlinesHandler, lock, logger),
		routeCleanupJob:    NewRouteCleanupJob(routeCleanupHandler, lock, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.biddingDeadlineJob.Start(); err != nil {
		return fmt.Errorf("failed to start bidding deadline job: %w", err)
	}

	if err := jm.routeCleanupJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.biddingDeadlineJob.Stop()
		return fmt.Errorf("failed to start route cleanup job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.routeCleanupJob.Stop()
	jm.biddingDeadlineJob.Stop()
}
