package parcel

import (
	"fmt"

	"crowdship/internal/pkg/errs"
)

// Status represents the lifecycle state of a parcel.
//
// State transitions:
//
//	New ──> OpenForBids ──> BidSelected ──> PendingPickup ──> InTransit ──> Delivered
//	                            │  ▲              │               │
//	                            ▼  │              ▼               ▼
//	                      OpenForBids           Failed ─────── Failed
//	                                              │ (admin)
//	                                              ▼
//	                                         OpenForBids
//
// Canceled is reachable from New, OpenForBids, BidSelected and PendingPickup.
// Delivered and Canceled are terminal. The only way out of Failed is an
// admin-driven retry back to OpenForBids.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// New is the initial status: the parcel exists but no bidding window
	// has been opened yet. Expired bidding rounds also reset back here.
	New

	// OpenForBids means couriers may submit bids until the bid deadline.
	OpenForBids

	// BidSelected means the sender accepted a courier's bid; the courier
	// is assigned but has not picked the parcel up.
	BidSelected

	// PendingPickup means the handover to the courier has been scheduled.
	PendingPickup

	// InTransit means the courier has the parcel.
	InTransit

	// Delivered is the successful terminal state.
	Delivered

	// Failed means a pickup or delivery attempt failed. Only an admin can
	// move a failed parcel back into bidding.
	Failed

	// Canceled is the sender-/admin-driven terminal state.
	Canceled
)

// allowedTransitions is the single source of truth for the parcel status
// graph. Terminal states map to an empty set.
var allowedTransitions = map[Status][]Status{
	New:           {OpenForBids, Canceled},
	OpenForBids:   {BidSelected, Canceled},
	BidSelected:   {PendingPickup, OpenForBids, Canceled},
	PendingPickup: {InTransit, Failed, Canceled},
	InTransit:     {Delivered, Failed},
	Delivered:     {},
	Canceled:      {},
	Failed:        {OpenForBids},
}

var statusStrings = map[Status]string{
	Unknown:       "Unknown",
	New:           "New",
	OpenForBids:   "OpenForBids",
	BidSelected:   "BidSelected",
	PendingPickup: "PendingPickup",
	InTransit:     "InTransit",
	Delivered:     "Delivered",
	Failed:        "Failed",
	Canceled:      "Canceled",
}

// Validate checks that the Status is one of the defined lifecycle states.
// Unknown and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := allowedTransitions[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer; safe to call on invalid values.
func (s Status) String() string {
	if str, ok := statusStrings[s]; ok {
		return str
	}
	return "Unknown"
}

// ParseStatus maps a status name to its Status value.
func ParseStatus(name string) (Status, error) {
	for s, str := range statusStrings {
		if s != Unknown && str == name {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", name))
}

// IsTerminal reports whether no transition leaves this status.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Canceled
}

// CanTransitionTo reports whether target is in the allowed set for s.
// Admin-only restrictions (Failed -> OpenForBids) are enforced by the
// lifecycle service, not here.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// AllowedNext returns a copy of the allowed next statuses, used to build
// human-readable transition errors.
func (s Status) AllowedNext() []Status {
	next := allowedTransitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}
