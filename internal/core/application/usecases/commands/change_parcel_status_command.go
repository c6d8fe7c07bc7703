package commands

import (
	"errors"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/model/parcel"
)

var (
	ErrChangeParcelStatusCommandIsNotConstructed = errors.New(
		"ChangeParcelStatusCommand must be created via NewChangeParcelStatusCommand constructor",
	)
	ErrForceRequiresAdmin = errors.New("force transitions require an admin actor")
)

// ChangeParcelStatusCommand represents a request to move a parcel to a new
// lifecycle status on behalf of an actor.
//
// Example:
//
//	cmd, err := NewChangeParcelStatusCommand(parcelID, actorID, parcel.InTransit, false, false)
//	if err != nil {
//	    return fmt.Errorf("invalid status change: %w", err)
//	}
//
//	handler := NewChangeParcelStatusCommandHandler(uowFactory, sink, clock)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("status change failed: %w", err)
//	}
type ChangeParcelStatusCommand struct { //nolint:recvcheck //using for validation
	parcelID kernel.UUID
	actorID  kernel.UUID
	target   parcel.Status
	isAdmin  bool
	force    bool

	guard kernel.ConstructorGuard
}

// NewChangeParcelStatusCommand creates a command to change a parcel's status.
// Force is an admin-only override that bypasses transition validation.
func NewChangeParcelStatusCommand(
	parcelID kernel.UUID,
	actorID kernel.UUID,
	target parcel.Status,
	isAdmin bool,
	force bool,
) (ChangeParcelStatusCommand, error) {
	cmd := ChangeParcelStatusCommand{
		isAdmin: isAdmin,
		force:   force,
		guard:   kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setParcelID(parcelID),
		cmd.setActorID(actorID),
		cmd.setTarget(target),
	); err != nil {
		return ChangeParcelStatusCommand{}, err
	}

	if force && !isAdmin {
		return ChangeParcelStatusCommand{}, ErrForceRequiresAdmin
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeParcelStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeParcelStatusCommandIsNotConstructed)
}

func (c ChangeParcelStatusCommand) ParcelID() kernel.UUID  { return c.parcelID }
func (c ChangeParcelStatusCommand) ActorID() kernel.UUID   { return c.actorID }
func (c ChangeParcelStatusCommand) Target() parcel.Status  { return c.target }
func (c ChangeParcelStatusCommand) IsAdmin() bool          { return c.isAdmin }
func (c ChangeParcelStatusCommand) Force() bool            { return c.force }

func (c *ChangeParcelStatusCommand) setParcelID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.parcelID = id
	return nil
}

func (c *ChangeParcelStatusCommand) setActorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.actorID = id
	return nil
}

func (c *ChangeParcelStatusCommand) setTarget(target parcel.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	c.target = target
	return nil
}
