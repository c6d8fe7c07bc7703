package commands

import (
	"errors"
	"time"

	"crowdship/internal/core/domain/model/kernel"
)

var (
	ErrPlaceBidCommandIsNotConstructed = errors.New(
		"PlaceBidCommand must be created via NewPlaceBidCommand constructor",
	)
	ErrBidPriceIsInvalid = errors.New("bid price must be greater than 0")
)

// PlaceBidCommand represents a courier's offer to deliver a parcel.
//
// Example:
//
//	cmd, err := NewPlaceBidCommand(bidID, parcelID, courierID, nil, 19.50, nil, nil, "tonight after 6pm")
//	if err != nil {
//	    return fmt.Errorf("invalid bid: %w", err)
//	}
//
//	handler := NewPlaceBidCommandHandler(uowFactory, sink, clock, logger)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("bid placement failed: %w", err)
//	}
type PlaceBidCommand struct { //nolint:recvcheck //using for validation
	bidID              kernel.UUID
	parcelID           kernel.UUID
	courierID          kernel.UUID
	routeID            *kernel.UUID
	price              float64
	estimatedHours     *int
	proposedPickupTime *time.Time
	message            string

	guard kernel.ConstructorGuard
}

// NewPlaceBidCommand creates a command to place a bid on a parcel.
// RouteID, estimated hours and proposed pickup time are optional.
func NewPlaceBidCommand(
	bidID kernel.UUID,
	parcelID kernel.UUID,
	courierID kernel.UUID,
	routeID *kernel.UUID,
	price float64,
	estimatedHours *int,
	proposedPickupTime *time.Time,
	message string,
) (PlaceBidCommand, error) {
	cmd := PlaceBidCommand{
		routeID:            routeID,
		estimatedHours:     estimatedHours,
		proposedPickupTime: proposedPickupTime,
		message:            message,
		guard:              kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setBidID(bidID),
		cmd.setParcelID(parcelID),
		cmd.setCourierID(courierID),
		cmd.setPrice(price),
	); err != nil {
		return PlaceBidCommand{}, err
	}

	if routeID != nil {
		if err := routeID.Validate(); err != nil {
			return PlaceBidCommand{}, err
		}
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceBidCommand) Validate() error {
	return c.guard.Validate(ErrPlaceBidCommandIsNotConstructed)
}

func (c PlaceBidCommand) BidID() kernel.UUID              { return c.bidID }
func (c PlaceBidCommand) ParcelID() kernel.UUID           { return c.parcelID }
func (c PlaceBidCommand) CourierID() kernel.UUID          { return c.courierID }
func (c PlaceBidCommand) RouteID() *kernel.UUID           { return c.routeID }
func (c PlaceBidCommand) Price() float64                  { return c.price }
func (c PlaceBidCommand) EstimatedHours() *int            { return c.estimatedHours }
func (c PlaceBidCommand) ProposedPickupTime() *time.Time  { return c.proposedPickupTime }
func (c PlaceBidCommand) Message() string                 { return c.message }

func (c *PlaceBidCommand) setBidID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.bidID = id
	return nil
}

func (c *PlaceBidCommand) setParcelID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.parcelID = id
	return nil
}

func (c *PlaceBidCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.courierID = id
	return nil
}

func (c *PlaceBidCommand) setPrice(price float64) error {
	if price <= 0 {
		return ErrBidPriceIsInvalid
	}
	c.price = price
	return nil
}
