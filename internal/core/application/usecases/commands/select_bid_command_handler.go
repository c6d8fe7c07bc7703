package commands

import (
	"context"
	"errors"
	"log/slog"

	"crowdship/internal/core/domain/model/bid"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/ports"
)

var (
	ErrBidDoesNotBelongToParcel = errors.New("bid does not belong to this parcel")
	ErrSenderDoesNotOwnParcel   = errors.New("parcel does not belong to this sender")
)

// SelectBidCommandHandler finalizes a sender's choice of courier.
// The winning bid moves to Selected, sibling Pending bids are rejected, and
// the parcel moves to BidSelected with the courier assigned.
type SelectBidCommandHandler struct {
	uowFactory BiddingUoWFactory
	sink       ports.NotificationSink
	clock      ports.Clock
	logger     *slog.Logger
}

// NewSelectBidCommandHandler creates a handler for bid selection operations.
func NewSelectBidCommandHandler(
	uowFactory BiddingUoWFactory,
	sink ports.NotificationSink,
	clock ports.Clock,
	logger *slog.Logger,
) SelectBidCommandHandler {
	return SelectBidCommandHandler{
		uowFactory: uowFactory,
		sink:       sink,
		clock:      clock,
		logger:     logger.With("handler", "select_bid"),
	}
}

// Handle processes the bid selection command in one transaction. Rejected
// couriers and the winner are notified after commit, best effort.
func (h SelectBidCommandHandler) Handle(ctx context.Context, cmd SelectBidCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parcelRepo := uow.ParcelRepository()
	bidRepo := uow.BidRepository()

	p, err := parcelRepo.Get(ctx, cmd.ParcelID())
	if err != nil {
		return err
	}
	if !p.SenderID().IsEqual(cmd.SenderID()) {
		return ErrSenderDoesNotOwnParcel
	}

	winner, err := bidRepo.Get(ctx, cmd.BidID())
	if err != nil {
		return err
	}
	if !winner.ParcelID().IsEqual(p.ID()) {
		return ErrBidDoesNotBelongToParcel
	}

	now := h.clock.Now()
	if err = winner.Select(now); err != nil {
		return err
	}
	if err = bidRepo.Update(ctx, winner); err != nil {
		return err
	}

	siblings, err := bidRepo.GetPendingForParcel(ctx, cmd.ParcelID())
	if err != nil {
		return err
	}

	var rejected []*bid.Bid
	for _, sibling := range siblings {
		if sibling.ID().IsEqual(winner.ID()) {
			continue
		}
		if err = sibling.Reject(); err != nil {
			return err
		}
		if err = bidRepo.Update(ctx, sibling); err != nil {
			return err
		}
		rejected = append(rejected, sibling)
	}

	if err = p.SelectBid(winner.ID(), winner.CourierID(), now); err != nil {
		return err
	}
	if err = parcelRepo.Update(ctx, p); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	parcelID := p.ID()
	h.notify(ctx, winner.CourierID(), ports.NotificationBidSelected,
		"your offer was selected, awaiting pickup", &parcelID)
	for _, sibling := range rejected {
		h.notify(ctx, sibling.CourierID(), ports.NotificationBidRejected,
			"another offer was selected for this parcel", &parcelID)
	}

	return nil
}

func (h SelectBidCommandHandler) notify(
	ctx context.Context,
	userID kernel.UUID,
	kind ports.NotificationKind,
	message string,
	parcelID *kernel.UUID,
) {
	if err := h.sink.Notify(ctx, userID, kind, message, parcelID); err != nil {
		h.logger.WarnContext(ctx, "Notification failed", "kind", kind, "error", err)
	}
}
