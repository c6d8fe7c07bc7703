package commands

import (
	"context"
	"fmt"
	"log/slog"

	"crowdship/internal/core/domain/model/parcel"
	"crowdship/internal/core/ports"
)

// CleanupExpiredRoutesCommandHandler deactivates routes whose trip date has
// passed and unwinds the bids that depended on them: pending bids are
// withdrawn, and selections on parcels still in BidSelected are reverted so
// the parcel reopens for offers with its original deadline.
//
// The route itself is deactivated last, after its bids are unwound. The
// whole pass runs in one transaction; malformed entries are logged and
// skipped.
type CleanupExpiredRoutesCommandHandler struct {
	uowFactory UoWFactory
	sink       ports.NotificationSink
	clock      ports.Clock
	logger     *slog.Logger
}

// NewCleanupExpiredRoutesCommandHandler creates a handler for cleanup passes.
func NewCleanupExpiredRoutesCommandHandler(
	uowFactory UoWFactory,
	sink ports.NotificationSink,
	clock ports.Clock,
	logger *slog.Logger,
) CleanupExpiredRoutesCommandHandler {
	return CleanupExpiredRoutesCommandHandler{
		uowFactory: uowFactory,
		sink:       sink,
		clock:      clock,
		logger:     logger.With("handler", "cleanup_expired_routes"),
	}
}

// Handle executes one cleanup pass and reports a summary of actions taken.
func (h CleanupExpiredRoutesCommandHandler) Handle(ctx context.Context, cmd CleanupExpiredRoutesCommand) (CleanupRunSummary, error) {
	summary := CleanupRunSummary{}

	if err := cmd.Validate(); err != nil {
		return summary, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return summary, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	routeRepo := uow.RouteRepository()
	bidRepo := uow.BidRepository()
	parcelRepo := uow.ParcelRepository()

	now := h.clock.Now()
	expired, err := routeRepo.GetAllExpired(ctx, now)
	if err != nil {
		return summary, err
	}

	var pending []notification

	for _, r := range expired {
		if err := r.Validate(); err != nil {
			h.logger.WarnContext(ctx, "Skipping malformed route", "error", err)
			continue
		}
		if !r.IsActive() || !r.IsExpired(now) {
			continue
		}

		bids, err := bidRepo.GetOpenByRoute(ctx, r.ID())
		if err != nil {
			return CleanupRunSummary{}, err
		}

		withdrawn := 0
		reverted := 0
		for _, b := range bids {
			p, err := parcelRepo.Get(ctx, b.ParcelID())
			if err != nil {
				h.logger.WarnContext(ctx, "Skipping bid with missing parcel",
					"bid_id", b.ID(), "error", err)
				continue
			}
			parcelID := p.ID()

			switch {
			case b.IsPending():
				summary.BidsWithdrawn++
				withdrawn++
				if cmd.DryRun() {
					continue
				}
				if err = b.Withdraw(now); err != nil {
					return CleanupRunSummary{}, err
				}
				if err = bidRepo.Update(ctx, b); err != nil {
					return CleanupRunSummary{}, err
				}
				p.UnregisterBid()
				if err = parcelRepo.Update(ctx, p); err != nil {
					return CleanupRunSummary{}, err
				}
				pending = append(pending, notification{
					userID:   p.SenderID(),
					kind:     ports.NotificationBidWithdrawn,
					message:  "an offer on your parcel was withdrawn because the courier's route expired",
					parcelID: &parcelID,
				})

			case p.Status() == parcel.BidSelected:
				// The selection has not progressed to pickup, so the
				// parcel reopens with its original deadline.
				summary.BidsWithdrawn++
				reverted++
				if cmd.DryRun() {
					continue
				}
				if err = b.Withdraw(now); err != nil {
					return CleanupRunSummary{}, err
				}
				if err = bidRepo.Update(ctx, b); err != nil {
					return CleanupRunSummary{}, err
				}
				if err = p.ChangeStatus(parcel.OpenForBids, now); err != nil {
					return CleanupRunSummary{}, err
				}
				if err = parcelRepo.Update(ctx, p); err != nil {
					return CleanupRunSummary{}, err
				}
				pending = append(pending, notification{
					userID:   p.SenderID(),
					kind:     ports.NotificationSelectionReverted,
					message:  "your selected courier's route expired, the parcel is open for offers again",
					parcelID: &parcelID,
				})

			default:
				// Delivery already under way. The route expiring no
				// longer affects this parcel.
			}
		}

		summary.RoutesDeactivated++
		if cmd.DryRun() {
			continue
		}
		r.Deactivate()
		if err = routeRepo.Update(ctx, r); err != nil {
			return CleanupRunSummary{}, err
		}
		pending = append(pending, notification{
			userID:  r.CourierID(),
			kind:    ports.NotificationRouteDeactivated,
			message: formatRouteDeactivated(withdrawn, reverted),
		})
	}

	if cmd.DryRun() {
		return summary, nil
	}

	if err = uow.Commit(ctx); err != nil {
		return CleanupRunSummary{}, err
	}

	for _, note := range pending {
		if err = h.sink.Notify(ctx, note.userID, note.kind, note.message, note.parcelID); err != nil {
			h.logger.WarnContext(ctx, "Notification failed", "kind", note.kind, "error", err)
		}
	}

	return summary, nil
}

func formatRouteDeactivated(affectedBids, revertedSelections int) string {
	return fmt.Sprintf(
		"your route expired and was deactivated, %d offer(s) withdrawn, %d selection(s) reverted",
		affectedBids, revertedSelections)
}
