package jobs

import (
	"context"
	"log/slog"
	"time"

	"crowdship/internal/core/application/usecases/commands"
	"crowdship/internal/core/ports"

	"github.com/robfig/cron/v3"
)

const (
	routeCleanupLockName = "route-cleanup"
	routeCleanupLockTTL  = 30 * time.Minute
)

// RouteCleanupJob manages the scheduled deactivation of expired routes.
// Runs hourly to retire routes whose trip date has passed and to unwind
// the bids that depend on them.
type RouteCleanupJob struct {
	handler commands.CleanupExpiredRoutesCommandHandler
	lock    ports.JobLock
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewRouteCleanupJob creates a new job for cleaning up expired routes.
func NewRouteCleanupJob(handler commands.CleanupExpiredRoutesCommandHandler, lock ports.JobLock, logger *slog.Logger) *RouteCleanupJob {
	return &RouteCleanupJob{
		handler: handler,
		lock:    lock,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "route_cleanup_job"),
	}
}

// Start begins the route cleanup job to run at the top of every hour.
func (j *RouteCleanupJob) Start() error {
	_, err := j.cron.AddFunc("0 0 * * * *", func() {
		ctx := context.Background()

		acquired, err := j.lock.Acquire(ctx, routeCleanupLockName, routeCleanupLockTTL)
		if err != nil {
			j.logger.ErrorContext(ctx, "Route cleanup lock acquisition failed", "error", err)
			return
		}
		if !acquired {
			// Another instance is already handling this tick.
			return
		}
		defer func() {
			if err := j.lock.Release(ctx, routeCleanupLockName); err != nil {
				j.logger.WarnContext(ctx, "Route cleanup lock release failed", "error", err)
			}
		}()

		cmd := commands.NewCleanupExpiredRoutesCommand(false)

		summary, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Route cleanup job failed", "error", err)
			return
		}

		if summary.RoutesDeactivated > 0 {
			j.logger.InfoContext(ctx, "Route cleanup pass completed",
				"routesDeactivated", summary.RoutesDeactivated,
				"bidsWithdrawn", summary.BidsWithdrawn)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Route cleanup job started (running hourly)")
	return nil
}

// Stop stops the route cleanup job.
func (j *RouteCleanupJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Route cleanup job stopped")
}
