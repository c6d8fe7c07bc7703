package parcel

import (
	"errors"
	"fmt"
	"time"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
)

// MaxDeadlineExtensions is the number of times a bidding deadline may be
// extended before the scheduler force-expires the bidding round.
const MaxDeadlineExtensions = 2

var (
	// ErrParcelIsNotConstructed is returned when a Parcel instance was not
	// created through NewParcel or RestoreParcel.
	ErrParcelIsNotConstructed = errors.New("Parcel must be created via NewParcel or RestoreParcel")

	// ErrExtensionsExhausted is returned when extending a bid deadline past
	// MaxDeadlineExtensions.
	ErrExtensionsExhausted = errors.New("bid deadline extensions exhausted")
)

// Parcel is the aggregate root for a delivery request. It owns the bidding
// window state (deadline, extension count, warning flag, bid count), the
// courier assignment, and the per-transition timestamps.
//
// Invariants:
//   - courierID is set only while the parcel is in BidSelected,
//     PendingPickup, InTransit or Delivered
//   - status mutation flows exclusively through ChangeStatus/ForceStatus
//     and the bidding helpers, never by field assignment
//   - bidCount is non-negative; deadlineExtensions never exceeds
//     MaxDeadlineExtensions
type Parcel struct {
	id       kernel.UUID
	senderID kernel.UUID

	// courierID is the assigned courier (nil until a bid is selected).
	courierID     *kernel.UUID
	selectedBidID *kernel.UUID

	pickup         kernel.GeoPoint
	dropoff        kernel.GeoPoint
	pickupAddress  string
	dropoffAddress string

	sizeClass SizeClass
	weightKg  float64
	price     float64

	status          Status
	statusChangedAt time.Time

	// Bidding window state. The warning flag and extension counter are
	// persisted so scheduler idempotency survives process restarts.
	bidDeadline         *time.Time
	bidCount            int
	deadlineExtensions  int
	deadlineWarningSent bool

	requiresProof bool
	isActive      bool

	bidSelectedAt   *time.Time
	pendingPickupAt *time.Time
	inTransitAt     *time.Time
	pickupTime      *time.Time
	deliveryTime    *time.Time
	failedAt        *time.Time
	createdAt       time.Time

	guard kernel.ConstructorGuard
}

// NewParcel creates a new delivery request in status New.
// Pickup and dropoff points must be constructed GeoPoints, addresses
// non-empty, weight and price positive, and the size class valid.
func NewParcel(
	id kernel.UUID,
	senderID kernel.UUID,
	pickup kernel.GeoPoint,
	dropoff kernel.GeoPoint,
	pickupAddress string,
	dropoffAddress string,
	sizeClass SizeClass,
	weightKg float64,
	price float64,
	requiresProof bool,
	now time.Time,
) (*Parcel, error) {
	p := &Parcel{
		status:          New,
		statusChangedAt: now,
		createdAt:       now,
		requiresProof:   requiresProof,
		isActive:        true,
		guard:           kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setSenderID(senderID),
		p.setPickup(pickup, pickupAddress),
		p.setDropoff(dropoff, dropoffAddress),
		p.setSizeClass(sizeClass),
		p.setWeightKg(weightKg),
		p.setPrice(price),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestoreParcel rehydrates a parcel from persistence without replaying its
// history. The stored status is trusted; identifiers and coordinates are
// still validated.
func RestoreParcel(
	id kernel.UUID,
	senderID kernel.UUID,
	courierID *kernel.UUID,
	selectedBidID *kernel.UUID,
	pickup kernel.GeoPoint,
	dropoff kernel.GeoPoint,
	pickupAddress string,
	dropoffAddress string,
	sizeClass SizeClass,
	weightKg float64,
	price float64,
	status Status,
	statusChangedAt time.Time,
	bidDeadline *time.Time,
	bidCount int,
	deadlineExtensions int,
	deadlineWarningSent bool,
	requiresProof bool,
	isActive bool,
	timestamps Timestamps,
) (*Parcel, error) {
	p := &Parcel{
		courierID:           courierID,
		selectedBidID:       selectedBidID,
		status:              status,
		statusChangedAt:     statusChangedAt,
		bidDeadline:         bidDeadline,
		bidCount:            bidCount,
		deadlineExtensions:  deadlineExtensions,
		deadlineWarningSent: deadlineWarningSent,
		requiresProof:       requiresProof,
		isActive:            isActive,
		bidSelectedAt:       timestamps.BidSelectedAt,
		pendingPickupAt:     timestamps.PendingPickupAt,
		inTransitAt:         timestamps.InTransitAt,
		pickupTime:          timestamps.PickupTime,
		deliveryTime:        timestamps.DeliveryTime,
		failedAt:            timestamps.FailedAt,
		createdAt:           timestamps.CreatedAt,
		guard:               kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setSenderID(senderID),
		p.setPickup(pickup, pickupAddress),
		p.setDropoff(dropoff, dropoffAddress),
		p.setSizeClass(sizeClass),
		p.setWeightKg(weightKg),
		p.setPrice(price),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// Timestamps groups the per-transition timestamps for RestoreParcel.
type Timestamps struct {
	BidSelectedAt   *time.Time
	PendingPickupAt *time.Time
	InTransitAt     *time.Time
	PickupTime      *time.Time
	DeliveryTime    *time.Time
	FailedAt        *time.Time
	CreatedAt       time.Time
}

// Validate ensures the Parcel instance was properly constructed.
func (p *Parcel) Validate() error {
	if p == nil || p.guard.Validate(ErrParcelIsNotConstructed) != nil {
		return ErrParcelIsNotConstructed
	}
	return nil
}

// IsEqual compares two parcels by identifier.
func (p *Parcel) IsEqual(other *Parcel) bool {
	return other != nil && p.id.IsEqual(other.id)
}

func (p *Parcel) ID() kernel.UUID               { return p.id }
func (p *Parcel) SenderID() kernel.UUID         { return p.senderID }
func (p *Parcel) Courier() *kernel.UUID         { return p.courierID }
func (p *Parcel) SelectedBidID() *kernel.UUID   { return p.selectedBidID }
func (p *Parcel) Pickup() kernel.GeoPoint       { return p.pickup }
func (p *Parcel) Dropoff() kernel.GeoPoint      { return p.dropoff }
func (p *Parcel) PickupAddress() string         { return p.pickupAddress }
func (p *Parcel) DropoffAddress() string        { return p.dropoffAddress }
func (p *Parcel) Size() SizeClass               { return p.sizeClass }
func (p *Parcel) WeightKg() float64             { return p.weightKg }
func (p *Parcel) Price() float64                { return p.price }
func (p *Parcel) Status() Status                { return p.status }
func (p *Parcel) StatusChangedAt() time.Time    { return p.statusChangedAt }
func (p *Parcel) BidDeadline() *time.Time       { return p.bidDeadline }
func (p *Parcel) BidCount() int                 { return p.bidCount }
func (p *Parcel) DeadlineExtensions() int       { return p.deadlineExtensions }
func (p *Parcel) DeadlineWarningSent() bool     { return p.deadlineWarningSent }
func (p *Parcel) RequiresProof() bool           { return p.requiresProof }
func (p *Parcel) IsActive() bool                { return p.isActive }
func (p *Parcel) BidSelectedAt() *time.Time     { return p.bidSelectedAt }
func (p *Parcel) PendingPickupAt() *time.Time   { return p.pendingPickupAt }
func (p *Parcel) InTransitAt() *time.Time       { return p.inTransitAt }
func (p *Parcel) PickupTime() *time.Time        { return p.pickupTime }
func (p *Parcel) DeliveryTime() *time.Time      { return p.deliveryTime }
func (p *Parcel) FailedAt() *time.Time          { return p.failedAt }
func (p *Parcel) CreatedAt() time.Time          { return p.createdAt }

// ChangeStatus applies a transition from the allowed-transition table along
// with its side effects. Admin authorization for the Failed -> OpenForBids
// retry is checked by the lifecycle service before this is called.
// No side effect is applied if the transition is rejected.
func (p *Parcel) ChangeStatus(target Status, now time.Time) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if !p.status.CanTransitionTo(target) {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("cannot transition from %s to %s", p.status, target))
	}

	p.applyStatus(target, now)
	return nil
}

// ForceStatus applies a transition bypassing the allowed-transition table.
// Used for corrective admin actions and for scheduler resets that fall
// outside the public status graph. Side effects are still applied.
func (p *Parcel) ForceStatus(target Status, now time.Time) {
	p.applyStatus(target, now)
}

// applyStatus performs the status write and all per-target side effects in
// one place so they can never be partially applied.
func (p *Parcel) applyStatus(target Status, now time.Time) {
	prev := p.status
	p.status = target
	p.statusChangedAt = now

	switch target {
	case OpenForBids:
		if prev == Failed {
			// Admin retry: clear the failure and the previous courier.
			p.failedAt = nil
			p.courierID = nil
			p.selectedBidID = nil
		}
		if prev == BidSelected {
			// Selection revert (e.g. route deactivation cascade): the
			// parcel goes back to bidding, the deadline is preserved.
			p.courierID = nil
			p.selectedBidID = nil
			p.bidSelectedAt = nil
		}
	case BidSelected:
		t := now
		p.bidSelectedAt = &t
	case PendingPickup:
		t := now
		p.pendingPickupAt = &t
	case InTransit:
		t := now
		p.inTransitAt = &t
		p.pickupTime = &t
	case Delivered:
		t := now
		p.deliveryTime = &t
	case Failed:
		t := now
		p.failedAt = &t
	case Canceled:
		if prev == BidSelected || prev == PendingPickup {
			p.courierID = nil
			p.selectedBidID = nil
		}
	case New, Unknown:
		// No dedicated side effects; bidding resets go through ResetBidding.
	}
}

// OpenBidding moves a New parcel into OpenForBids with the given deadline.
func (p *Parcel) OpenBidding(deadline time.Time, now time.Time) error {
	if err := p.ChangeStatus(OpenForBids, now); err != nil {
		return err
	}
	d := deadline
	p.bidDeadline = &d
	p.deadlineWarningSent = false
	return nil
}

// SelectBid assigns the courier of the winning bid and moves the parcel to
// BidSelected. The parcel must be open for bids.
func (p *Parcel) SelectBid(bidID, courierID kernel.UUID, now time.Time) error {
	if err := errors.Join(bidID.Validate(), courierID.Validate()); err != nil {
		return err
	}
	if err := p.ChangeStatus(BidSelected, now); err != nil {
		return err
	}

	p.courierID = &courierID
	p.selectedBidID = &bidID
	return nil
}

// RegisterBid records that a new bid was placed on this parcel.
func (p *Parcel) RegisterBid() {
	p.bidCount++
}

// UnregisterBid records a bid withdrawal. The count never goes negative.
func (p *Parcel) UnregisterBid() {
	if p.bidCount > 0 {
		p.bidCount--
	}
}

// MarkDeadlineWarningSent flags that the sender has been warned about the
// approaching bid deadline for the current window. The flag is reset by
// ExtendBidDeadline and ResetBidding.
func (p *Parcel) MarkDeadlineWarningSent() {
	p.deadlineWarningSent = true
}

// ExtendBidDeadline pushes the bid deadline to now+extension and re-arms
// the warning. Fails with ErrExtensionsExhausted once MaxDeadlineExtensions
// is reached.
func (p *Parcel) ExtendBidDeadline(now time.Time, extension time.Duration) error {
	if p.deadlineExtensions >= MaxDeadlineExtensions {
		return ErrExtensionsExhausted
	}

	deadline := now.Add(extension)
	p.bidDeadline = &deadline
	p.deadlineExtensions++
	p.deadlineWarningSent = false
	return nil
}

// ResetBidding returns the parcel to the open New state after its bidding
// round expired: the deadline, counters and warning flag are cleared. This
// is a forced system transition outside the public status graph.
func (p *Parcel) ResetBidding(now time.Time) {
	p.ForceStatus(New, now)
	p.bidDeadline = nil
	p.bidCount = 0
	p.deadlineExtensions = 0
	p.deadlineWarningSent = false
}

// Deactivate soft-deletes the parcel. Matching and scheduling ignore
// inactive parcels.
func (p *Parcel) Deactivate() {
	p.isActive = false
}

func (p *Parcel) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Parcel) setSenderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("senderId", err)
	}
	p.senderID = id
	return nil
}

func (p *Parcel) setPickup(point kernel.GeoPoint, address string) error {
	if err := point.Validate(); err != nil {
		return err
	}
	if address == "" {
		return errs.NewValueIsRequiredError("pickupAddress")
	}
	p.pickup = point
	p.pickupAddress = address
	return nil
}

func (p *Parcel) setDropoff(point kernel.GeoPoint, address string) error {
	if err := point.Validate(); err != nil {
		return err
	}
	if address == "" {
		return errs.NewValueIsRequiredError("dropoffAddress")
	}
	p.dropoff = point
	p.dropoffAddress = address
	return nil
}

func (p *Parcel) setSizeClass(size SizeClass) error {
	if err := size.Validate(); err != nil {
		return err
	}
	p.sizeClass = size
	return nil
}

func (p *Parcel) setWeightKg(weightKg float64) error {
	if weightKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weightKg",
			fmt.Errorf("%g is not greater than 0", weightKg))
	}
	p.weightKg = weightKg
	return nil
}

func (p *Parcel) setPrice(price float64) error {
	if price <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("price",
			fmt.Errorf("%g is not greater than 0", price))
	}
	p.price = price
	return nil
}
