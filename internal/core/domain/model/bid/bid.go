package bid

import (
	"errors"
	"fmt"
	"time"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
)

// MaxMessageLength caps the free-text message a courier can attach to a bid.
const MaxMessageLength = 500

var (
	// ErrBidIsNotConstructed is returned when a Bid instance was not created
	// through NewBid or RestoreBid.
	ErrBidIsNotConstructed = errors.New("Bid must be created via NewBid or RestoreBid")
)

// Bid is a courier's offer to deliver a parcel, optionally tied to one of
// the courier's routes.
//
// Invariants:
//   - price is positive
//   - message is at most MaxMessageLength characters
//   - at most one bid exists per (parcel, courier) pair; uniqueness is
//     enforced by the placing workflow against the repository
type Bid struct {
	id        kernel.UUID
	parcelID  kernel.UUID
	courierID kernel.UUID
	routeID   *kernel.UUID

	price              float64
	estimatedHours     *int
	proposedPickupTime *time.Time
	message            string

	status      Status
	createdAt   time.Time
	selectedAt  *time.Time
	withdrawnAt *time.Time

	guard kernel.ConstructorGuard
}

// NewBid creates a pending bid.
func NewBid(
	id kernel.UUID,
	parcelID kernel.UUID,
	courierID kernel.UUID,
	routeID *kernel.UUID,
	price float64,
	estimatedHours *int,
	proposedPickupTime *time.Time,
	message string,
	now time.Time,
) (*Bid, error) {
	b := &Bid{
		routeID:            routeID,
		estimatedHours:     estimatedHours,
		proposedPickupTime: proposedPickupTime,
		status:             Pending,
		createdAt:          now,
		guard:              kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		b.setID(id),
		b.setParcelID(parcelID),
		b.setCourierID(courierID),
		b.setPrice(price),
		b.setMessage(message),
	); err != nil {
		return nil, err
	}

	if routeID != nil {
		if err := routeID.Validate(); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// RestoreBid rehydrates a bid from persistence. The stored status is
// trusted.
func RestoreBid(
	id kernel.UUID,
	parcelID kernel.UUID,
	courierID kernel.UUID,
	routeID *kernel.UUID,
	price float64,
	estimatedHours *int,
	proposedPickupTime *time.Time,
	message string,
	status Status,
	createdAt time.Time,
	selectedAt *time.Time,
	withdrawnAt *time.Time,
) (*Bid, error) {
	b := &Bid{
		routeID:            routeID,
		estimatedHours:     estimatedHours,
		proposedPickupTime: proposedPickupTime,
		status:             status,
		createdAt:          createdAt,
		selectedAt:         selectedAt,
		withdrawnAt:        withdrawnAt,
		guard:              kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		b.setID(id),
		b.setParcelID(parcelID),
		b.setCourierID(courierID),
		b.setPrice(price),
		b.setMessage(message),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return b, nil
}

// Validate ensures the Bid instance was properly constructed.
func (b *Bid) Validate() error {
	if b == nil || b.guard.Validate(ErrBidIsNotConstructed) != nil {
		return ErrBidIsNotConstructed
	}
	return nil
}

func (b *Bid) ID() kernel.UUID                 { return b.id }
func (b *Bid) ParcelID() kernel.UUID           { return b.parcelID }
func (b *Bid) CourierID() kernel.UUID          { return b.courierID }
func (b *Bid) RouteID() *kernel.UUID           { return b.routeID }
func (b *Bid) Price() float64                  { return b.price }
func (b *Bid) EstimatedHours() *int            { return b.estimatedHours }
func (b *Bid) ProposedPickupTime() *time.Time  { return b.proposedPickupTime }
func (b *Bid) Message() string                 { return b.message }
func (b *Bid) Status() Status                  { return b.status }
func (b *Bid) CreatedAt() time.Time            { return b.createdAt }
func (b *Bid) SelectedAt() *time.Time          { return b.selectedAt }
func (b *Bid) WithdrawnAt() *time.Time         { return b.withdrawnAt }

// IsPending reports whether the bid is still open for selection.
func (b *Bid) IsPending() bool {
	return b.status == Pending
}

// Select marks a pending bid as the winning bid.
func (b *Bid) Select(now time.Time) error {
	if b.status != Pending {
		return b.invalidTransition(Selected)
	}
	b.status = Selected
	t := now
	b.selectedAt = &t
	return nil
}

// Reject marks a pending bid as rejected, used when a sibling bid wins.
// A bid that already reached Selected cannot be rejected.
func (b *Bid) Reject() error {
	if b.status != Pending {
		return b.invalidTransition(Rejected)
	}
	b.status = Rejected
	return nil
}

// Withdraw retracts a bid. Pending bids can be withdrawn by the courier;
// selected bids are withdrawn only when the assignment is undone by a
// system cascade.
func (b *Bid) Withdraw(now time.Time) error {
	if b.status != Pending && b.status != Selected {
		return b.invalidTransition(Withdrawn)
	}
	b.status = Withdrawn
	t := now
	b.withdrawnAt = &t
	return nil
}

// Expire marks a pending bid as expired when its parcel's bidding window
// closes without a selection.
func (b *Bid) Expire() error {
	if b.status != Pending {
		return b.invalidTransition(Expired)
	}
	b.status = Expired
	return nil
}

func (b *Bid) invalidTransition(target Status) error {
	return errs.NewValueIsInvalidErrorWithCause("bid status",
		fmt.Errorf("cannot transition bid from %s to %s", b.status, target))
}

func (b *Bid) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	b.id = id
	return nil
}

func (b *Bid) setParcelID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("parcelId", err)
	}
	b.parcelID = id
	return nil
}

func (b *Bid) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("courierId", err)
	}
	b.courierID = id
	return nil
}

func (b *Bid) setPrice(price float64) error {
	if price <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("price",
			fmt.Errorf("%g is not greater than 0", price))
	}
	b.price = price
	return nil
}

func (b *Bid) setMessage(message string) error {
	if len(message) > MaxMessageLength {
		return errs.NewValueIsOutOfRangeError("message length", len(message), 0, MaxMessageLength)
	}
	b.message = message
	return nil
}
