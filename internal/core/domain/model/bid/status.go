package bid

import (
	"fmt"

	"crowdship/internal/pkg/errs"
)

// Status represents the lifecycle state of a courier bid.
//
// Pending is the only fan-out state: a pending bid can be selected by the
// sender, rejected when a sibling wins, withdrawn by the courier or a
// system cascade, or expired by the bidding scheduler. A selected bid can
// only be withdrawn, which happens when the assignment is undone (e.g. the
// courier's route is deactivated).
type Status int

const (
	Unknown Status = iota
	Pending
	Selected
	Rejected
	Withdrawn
	Expired
)

var statusStrings = map[Status]string{
	Unknown:   "Unknown",
	Pending:   "Pending",
	Selected:  "Selected",
	Rejected:  "Rejected",
	Withdrawn: "Withdrawn",
	Expired:   "Expired",
}

// Validate checks that the Status is a defined bid state.
func (s Status) Validate() error {
	switch s {
	case Pending, Selected, Rejected, Withdrawn, Expired:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("bid status",
			fmt.Errorf("%d is not a valid bid status", s))
	}
}

// String implements fmt.Stringer; safe on invalid values.
func (s Status) String() string {
	if str, ok := statusStrings[s]; ok {
		return str
	}
	return "Unknown"
}
