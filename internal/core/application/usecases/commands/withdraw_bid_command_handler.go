package commands

import (
	"context"
	"errors"
	"log/slog"

	"crowdship/internal/core/ports"
)

var (
	ErrCourierDoesNotOwnBid = errors.New("bid does not belong to this courier")
	ErrBidIsNotPending      = errors.New("only pending bids can be withdrawn by the courier")
)

// WithdrawBidCommandHandler retracts a courier's pending bid and decrements
// the parcel's bid count.
type WithdrawBidCommandHandler struct {
	uowFactory BiddingUoWFactory
	sink       ports.NotificationSink
	clock      ports.Clock
	logger     *slog.Logger
}

// NewWithdrawBidCommandHandler creates a handler for bid withdrawal operations.
func NewWithdrawBidCommandHandler(
	uowFactory BiddingUoWFactory,
	sink ports.NotificationSink,
	clock ports.Clock,
	logger *slog.Logger,
) WithdrawBidCommandHandler {
	return WithdrawBidCommandHandler{
		uowFactory: uowFactory,
		sink:       sink,
		clock:      clock,
		logger:     logger.With("handler", "withdraw_bid"),
	}
}

// Handle processes the withdrawal. Only the bid's own courier may withdraw
// it, and only while it is still pending.
func (h WithdrawBidCommandHandler) Handle(ctx context.Context, cmd WithdrawBidCommand) error {
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

	bidRepo := uow.BidRepository()
	parcelRepo := uow.ParcelRepository()

	b, err := bidRepo.Get(ctx, cmd.BidID())
	if err != nil {
		return err
	}
	if !b.CourierID().IsEqual(cmd.CourierID()) {
		return ErrCourierDoesNotOwnBid
	}
	if !b.IsPending() {
		return ErrBidIsNotPending
	}

	if err = b.Withdraw(h.clock.Now()); err != nil {
		return err
	}
	if err = bidRepo.Update(ctx, b); err != nil {
		return err
	}

	p, err := parcelRepo.Get(ctx, b.ParcelID())
	if err != nil {
		return err
	}
	p.UnregisterBid()
	if err = parcelRepo.Update(ctx, p); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	parcelID := p.ID()
	message := "a courier withdrew their offer on your parcel"
	if err = h.sink.Notify(ctx, p.SenderID(), ports.NotificationBidWithdrawn, message, &parcelID); err != nil {
		h.logger.WarnContext(ctx, "Sender notification failed", "parcel_id", parcelID, "error", err)
	}

	return nil
}
