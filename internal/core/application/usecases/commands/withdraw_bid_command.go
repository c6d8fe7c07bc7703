package commands

import (
	"errors"

	"crowdship/internal/core/domain/model/kernel"
)

var ErrWithdrawBidCommandIsNotConstructed = errors.New(
	"WithdrawBidCommand must be created via NewWithdrawBidCommand constructor",
)

// WithdrawBidCommand represents a courier retracting their own pending bid.
type WithdrawBidCommand struct { //nolint:recvcheck //using for validation
	bidID     kernel.UUID
	courierID kernel.UUID

	guard kernel.ConstructorGuard
}

// NewWithdrawBidCommand creates a command to withdraw a bid.
func NewWithdrawBidCommand(bidID, courierID kernel.UUID) (WithdrawBidCommand, error) {
	cmd := WithdrawBidCommand{
		guard: kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setBidID(bidID),
		cmd.setCourierID(courierID),
	); err != nil {
		return WithdrawBidCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c WithdrawBidCommand) Validate() error {
	return c.guard.Validate(ErrWithdrawBidCommandIsNotConstructed)
}

func (c WithdrawBidCommand) BidID() kernel.UUID     { return c.bidID }
func (c WithdrawBidCommand) CourierID() kernel.UUID { return c.courierID }

func (c *WithdrawBidCommand) setBidID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.bidID = id
	return nil
}

func (c *WithdrawBidCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.courierID = id
	return nil
}
