package commands

import (
	"context"
	"fmt"
	"log/slog"

	"crowdship/internal/core/domain/services"
	"crowdship/internal/core/ports"
)

// ChangeParcelStatusCommandHandler applies lifecycle transitions to parcels.
// Validation and side effects are delegated to the Lifecycle domain service;
// the handler owns the transaction and the sender notification.
type ChangeParcelStatusCommandHandler struct {
	uowFactory ParcelUoWFactory
	lifecycle  services.Lifecycle
	sink       ports.NotificationSink
	clock      ports.Clock
	logger     *slog.Logger
}

// NewChangeParcelStatusCommandHandler creates a handler for parcel status changes.
func NewChangeParcelStatusCommandHandler(
	uowFactory ParcelUoWFactory,
	sink ports.NotificationSink,
	clock ports.Clock,
	logger *slog.Logger,
) ChangeParcelStatusCommandHandler {
	return ChangeParcelStatusCommandHandler{
		uowFactory: uowFactory,
		lifecycle:  services.NewLifecycle(),
		sink:       sink,
		clock:      clock,
		logger:     logger.With("handler", "change_parcel_status"),
	}
}

// Handle moves the parcel to the command's target status and notifies the
// sender after commit. Notification failures are logged, never returned.
func (h ChangeParcelStatusCommandHandler) Handle(ctx context.Context, cmd ChangeParcelStatusCommand) error {
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
	p, err := parcelRepo.Get(ctx, cmd.ParcelID())
	if err != nil {
		return err
	}

	if err = h.lifecycle.ApplyTransition(p, cmd.Target(), cmd.IsAdmin(), cmd.Force(), h.clock.Now()); err != nil {
		return err
	}

	if err = parcelRepo.Update(ctx, p); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	parcelID := p.ID()
	message := fmt.Sprintf("your parcel is now %s", p.Status())
	if err = h.sink.Notify(ctx, p.SenderID(), ports.NotificationStatusChanged, message, &parcelID); err != nil {
		h.logger.WarnContext(ctx, "Sender notification failed", "parcel_id", parcelID, "error", err)
	}

	return nil
}
