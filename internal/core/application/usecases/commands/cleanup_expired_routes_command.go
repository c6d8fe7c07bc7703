package commands

import (
	"errors"

	"crowdship/internal/core/domain/model/kernel"
)

var ErrCleanupExpiredRoutesCommandIsNotConstructed = errors.New(
	"CleanupExpiredRoutesCommand must be created via NewCleanupExpiredRoutesCommand constructor",
)

// CleanupExpiredRoutesCommand triggers one pass of the route cleanup job.
// With DryRun set, the pass reports would-be actions without mutating state
// or emitting notifications.
type CleanupExpiredRoutesCommand struct {
	dryRun bool

	guard kernel.ConstructorGuard
}

// NewCleanupExpiredRoutesCommand creates a cleanup pass command.
func NewCleanupExpiredRoutesCommand(dryRun bool) CleanupExpiredRoutesCommand {
	return CleanupExpiredRoutesCommand{
		dryRun: dryRun,
		guard:  kernel.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c CleanupExpiredRoutesCommand) Validate() error {
	return c.guard.Validate(ErrCleanupExpiredRoutesCommandIsNotConstructed)
}

// DryRun reports whether the pass should only report actions.
func (c CleanupExpiredRoutesCommand) DryRun() bool {
	return c.dryRun
}

// CleanupRunSummary reports what one cleanup pass did (or, in dry-run mode,
// would have done). Reverted selections are counted inside BidsWithdrawn
// and carried in notifications.
type CleanupRunSummary struct {
	RoutesDeactivated int
	BidsWithdrawn     int
}
