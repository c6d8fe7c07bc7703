package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/model/parcel"
	"crowdship/internal/core/ports"
)

const (
	// WarningWindow is how long before the bid deadline the sender gets a
	// one-time warning.
	WarningWindow = 6 * time.Hour

	// DeadlineExtension is how far past now an expired deadline is pushed
	// while extensions remain.
	DeadlineExtension = 12 * time.Hour
)

// ProcessBiddingDeadlinesCommandHandler runs the bidding deadline pass:
// warn senders approaching the deadline, extend expired deadlines while the
// parcel has extensions left, and otherwise expire the bidding window.
//
// The whole pass runs in one transaction. A failure rolls the batch back and
// surfaces to the scheduler for retry on the next tick; individual malformed
// parcels are logged and skipped.
type ProcessBiddingDeadlinesCommandHandler struct {
	uowFactory BiddingUoWFactory
	sink       ports.NotificationSink
	clock      ports.Clock
	logger     *slog.Logger
}

// NewProcessBiddingDeadlinesCommandHandler creates a handler for deadline passes.
func NewProcessBiddingDeadlinesCommandHandler(
	uowFactory BiddingUoWFactory,
	sink ports.NotificationSink,
	clock ports.Clock,
	logger *slog.Logger,
) ProcessBiddingDeadlinesCommandHandler {
	return ProcessBiddingDeadlinesCommandHandler{
		uowFactory: uowFactory,
		sink:       sink,
		clock:      clock,
		logger:     logger.With("handler", "process_bidding_deadlines"),
	}
}

// notification is deferred until after commit so sink failures cannot abort
// an applied batch.
type notification struct {
	userID   kernel.UUID
	kind     ports.NotificationKind
	message  string
	parcelID *kernel.UUID
}

// Handle executes one deadline pass and reports a summary of actions taken.
func (h ProcessBiddingDeadlinesCommandHandler) Handle(ctx context.Context, cmd ProcessBiddingDeadlinesCommand) (BiddingRunSummary, error) {
	summary := BiddingRunSummary{}

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

	parcelRepo := uow.ParcelRepository()
	bidRepo := uow.BidRepository()

	candidates, err := parcelRepo.GetAllBiddingWithDeadline(ctx)
	if err != nil {
		return summary, err
	}

	now := h.clock.Now()
	var pending []notification

	for _, p := range candidates {
		if err := p.Validate(); err != nil {
			h.logger.WarnContext(ctx, "Skipping malformed parcel", "error", err)
			continue
		}
		deadline := p.BidDeadline()
		if deadline == nil || p.Status() != parcel.OpenForBids || !p.IsActive() {
			h.logger.WarnContext(ctx, "Skipping parcel outside bidding window", "parcel_id", p.ID())
			continue
		}

		switch {
		// The warning branch takes priority so a stale run cannot warn and
		// expire the same parcel in one pass.
		case !p.DeadlineWarningSent() && !now.Before(deadline.Add(-WarningWindow)):
			summary.WarningsSent++
			if cmd.DryRun() {
				continue
			}
			p.MarkDeadlineWarningSent()
			if err = parcelRepo.Update(ctx, p); err != nil {
				return BiddingRunSummary{}, err
			}
			pending = append(pending, h.senderNote(p, ports.NotificationDeadlineWarning,
				fmt.Sprintf("bidding on your parcel closes at %s", deadline.Format(time.RFC3339))))

		case !now.Before(*deadline):
			if p.DeadlineExtensions() < parcel.MaxDeadlineExtensions {
				summary.DeadlinesExtended++
				if cmd.DryRun() {
					continue
				}
				if err = p.ExtendBidDeadline(now, DeadlineExtension); err != nil {
					return BiddingRunSummary{}, err
				}
				if err = parcelRepo.Update(ctx, p); err != nil {
					return BiddingRunSummary{}, err
				}
				pending = append(pending, h.senderNote(p, ports.NotificationDeadlineExtended,
					fmt.Sprintf("bidding deadline extended, extension %d of %d",
						p.DeadlineExtensions(), parcel.MaxDeadlineExtensions)))
				continue
			}

			bids, err := bidRepo.GetPendingForParcel(ctx, p.ID())
			if err != nil {
				return BiddingRunSummary{}, err
			}
			summary.ParcelsExpired++
			summary.BidsExpired += len(bids)
			if cmd.DryRun() {
				continue
			}
			parcelID := p.ID()
			for _, b := range bids {
				if err = b.Expire(); err != nil {
					return BiddingRunSummary{}, err
				}
				if err = bidRepo.Update(ctx, b); err != nil {
					return BiddingRunSummary{}, err
				}
				pending = append(pending, notification{
					userID:   b.CourierID(),
					kind:     ports.NotificationBidExpired,
					message:  "the bidding window closed before your offer was selected",
					parcelID: &parcelID,
				})
			}
			p.ResetBidding(now)
			if err = parcelRepo.Update(ctx, p); err != nil {
				return BiddingRunSummary{}, err
			}
			pending = append(pending, h.senderNote(p, ports.NotificationBiddingExpired,
				"bidding on your parcel expired without a selection"))
		}
	}

	if cmd.DryRun() {
		return summary, nil
	}

	if err = uow.Commit(ctx); err != nil {
		return BiddingRunSummary{}, err
	}

	for _, note := range pending {
		if err = h.sink.Notify(ctx, note.userID, note.kind, note.message, note.parcelID); err != nil {
			h.logger.WarnContext(ctx, "Notification failed", "kind", note.kind, "error", err)
		}
	}

	return summary, nil
}

func (h ProcessBiddingDeadlinesCommandHandler) senderNote(p *parcel.Parcel, kind ports.NotificationKind, message string) notification {
	parcelID := p.ID()
	return notification{
		userID:   p.SenderID(),
		kind:     kind,
		message:  message,
		parcelID: &parcelID,
	}
}
