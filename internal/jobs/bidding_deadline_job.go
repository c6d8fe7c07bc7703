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
	biddingDeadlineLockName = "bidding-deadlines"
	biddingDeadlineLockTTL  = 4 * time.Minute
)

// BiddingDeadlineJob manages the scheduled processing of bidding deadlines.
// Runs every five minutes to send warnings, extend deadlines and expire
// bidding windows.
type BiddingDeadlineJob struct {
	handler commands.ProcessBiddingDeadlinesCommandHandler
	lock    ports.JobLock
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewBiddingDeadlineJob creates a new job for processing bidding deadlines.
func NewBiddingDeadlineJob(handler commands.ProcessBiddingDeadlinesCommandHandler, lock ports.JobLock, logger *slog.Logger) *BiddingDeadlineJob {
	return &BiddingDeadlineJob{
		handler: handler,
		lock:    lock,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "bidding_deadline_job"),
	}
}

// Start begins the bidding deadline job to run every five minutes.
func (j *BiddingDeadlineJob) Start() error {
	_, err := j.cron.AddFunc("0 */5 * * * *", func() {
		ctx := context.Background()

		acquired, err := j.lock.Acquire(ctx, biddingDeadlineLockName, biddingDeadlineLockTTL)
		if err != nil {
			j.logger.ErrorContext(ctx, "Bidding deadline lock acquisition failed", "error", err)
			return
		}
		if !acquired {
			// Another instance is already handling this tick.
			return
		}
		defer func() {
			if err := j.lock.Release(ctx, biddingDeadlineLockName); err != nil {
				j.logger.WarnContext(ctx, "Bidding deadline lock release failed", "error", err)
			}
		}()

		cmd := commands.NewProcessBiddingDeadlinesCommand(false)

		summary, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Bidding deadline job failed", "error", err)
			return
		}

		if summary.WarningsSent > 0 || summary.DeadlinesExtended > 0 || summary.ParcelsExpired > 0 {
			j.logger.InfoContext(ctx, "Bidding deadline pass completed",
				"warningsSent", summary.WarningsSent,
				"deadlinesExtended", summary.DeadlinesExtended,
				"parcelsExpired", summary.ParcelsExpired,
				"bidsExpired", summary.BidsExpired)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Bidding deadline job started (running every five minutes)")
	return nil
}

// Stop stops the bidding deadline job.
func (j *BiddingDeadlineJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Bidding deadline job stopped")
}
