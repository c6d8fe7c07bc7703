package commands

import (
	"errors"

	"crowdship/internal/core/domain/model/kernel"
)

var ErrProcessBiddingDeadlinesCommandIsNotConstructed = errors.New(
	"ProcessBiddingDeadlinesCommand must be created via NewProcessBiddingDeadlinesCommand constructor",
)

// ProcessBiddingDeadlinesCommand triggers one pass of the bidding deadline
// scheduler. With DryRun set, the pass reports would-be actions without
// mutating state or emitting notifications.
type ProcessBiddingDeadlinesCommand struct {
	dryRun bool

	guard kernel.ConstructorGuard
}

// NewProcessBiddingDeadlinesCommand creates a scheduler pass command.
func NewProcessBiddingDeadlinesCommand(dryRun bool) ProcessBiddingDeadlinesCommand {
	return ProcessBiddingDeadlinesCommand{
		dryRun: dryRun,
		guard:  kernel.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c ProcessBiddingDeadlinesCommand) Validate() error {
	return c.guard.Validate(ErrProcessBiddingDeadlinesCommandIsNotConstructed)
}

// DryRun reports whether the pass should only report actions.
func (c ProcessBiddingDeadlinesCommand) DryRun() bool {
	return c.dryRun
}

// BiddingRunSummary reports what one scheduler pass did (or, in dry-run
// mode, would have done).
type BiddingRunSummary struct {
	WarningsSent      int
	DeadlinesExtended int
	ParcelsExpired    int
	BidsExpired       int
}
