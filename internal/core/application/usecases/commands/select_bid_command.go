package commands

import (
	"errors"

	"crowdship/internal/core/domain/model/kernel"
)

var ErrSelectBidCommandIsNotConstructed = errors.New(
	"SelectBidCommand must be created via NewSelectBidCommand constructor",
)

// SelectBidCommand represents a sender's choice of winning bid. The chosen
// bid becomes Selected and every sibling Pending bid is rejected.
type SelectBidCommand struct { //nolint:recvcheck //using for validation
	parcelID kernel.UUID
	bidID    kernel.UUID
	senderID kernel.UUID

	guard kernel.ConstructorGuard
}

// NewSelectBidCommand creates a command to select a winning bid.
func NewSelectBidCommand(parcelID, bidID, senderID kernel.UUID) (SelectBidCommand, error) {
	cmd := SelectBidCommand{
		guard: kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setParcelID(parcelID),
		cmd.setBidID(bidID),
		cmd.setSenderID(senderID),
	); err != nil {
		return SelectBidCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SelectBidCommand) Validate() error {
	return c.guard.Validate(ErrSelectBidCommandIsNotConstructed)
}

func (c SelectBidCommand) ParcelID() kernel.UUID { return c.parcelID }
func (c SelectBidCommand) BidID() kernel.UUID    { return c.bidID }
func (c SelectBidCommand) SenderID() kernel.UUID { return c.senderID }

func (c *SelectBidCommand) setParcelID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.parcelID = id
	return nil
}

func (c *SelectBidCommand) setBidID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.bidID = id
	return nil
}

func (c *SelectBidCommand) setSenderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.senderID = id
	return nil
}
