package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"crowdship/internal/core/domain/model/bid"
	"crowdship/internal/core/domain/model/parcel"
	"crowdship/internal/core/ports"
	"crowdship/internal/pkg/errs"
)

var (
	ErrParcelIsNotOpenForBids = errors.New("parcel is not open for bids")
	ErrBidAlreadyPlaced       = errors.New("courier already has a bid on this parcel")
)

// PlaceBidCommandHandler records a courier's offer on an open parcel.
// Creates the bid, bumps the parcel's bid count and notifies the sender.
type PlaceBidCommandHandler struct {
	uowFactory BiddingUoWFactory
	sink       ports.NotificationSink
	clock      ports.Clock
	logger     *slog.Logger
}

// NewPlaceBidCommandHandler creates a handler for bid placement operations.
func NewPlaceBidCommandHandler(
	uowFactory BiddingUoWFactory,
	sink ports.NotificationSink,
	clock ports.Clock,
	logger *slog.Logger,
) PlaceBidCommandHandler {
	return PlaceBidCommandHandler{
		uowFactory: uowFactory,
		sink:       sink,
		clock:      clock,
		logger:     logger.With("handler", "place_bid"),
	}
}

// Handle processes the bid placement command. The parcel must be active and
// still accepting offers, and a courier can hold at most one bid per parcel.
func (h PlaceBidCommandHandler) Handle(ctx context.Context, cmd PlaceBidCommand) error {
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

	if !p.IsActive() || (p.Status() != parcel.New && p.Status() != parcel.OpenForBids) {
		return ErrParcelIsNotOpenForBids
	}

	existing, err := bidRepo.GetByParcelAndCourier(ctx, cmd.ParcelID(), cmd.CourierID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	if existing != nil {
		return ErrBidAlreadyPlaced
	}

	b, err := bid.NewBid(
		cmd.BidID(),
		cmd.ParcelID(),
		cmd.CourierID(),
		cmd.RouteID(),
		cmd.Price(),
		cmd.EstimatedHours(),
		cmd.ProposedPickupTime(),
		cmd.Message(),
		h.clock.Now(),
	)
	if err != nil {
		return err
	}

	if err = bidRepo.Add(ctx, b); err != nil {
		return err
	}

	p.RegisterBid()
	if err = parcelRepo.Update(ctx, p); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	parcelID := p.ID()
	message := fmt.Sprintf("new offer of %.2f on your parcel (%d total)", b.Price(), p.BidCount())
	if err = h.sink.Notify(ctx, p.SenderID(), ports.NotificationBidPlaced, message, &parcelID); err != nil {
		h.logger.WarnContext(ctx, "Sender notification failed", "parcel_id", parcelID, "error", err)
	}

	return nil
}
