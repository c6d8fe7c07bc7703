package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"crowdship/internal/core/domain/model/parcel"
)

// ErrProofOfDeliveryRequired signals that the parcel may be marked
// delivered only after the caller has verified proof of delivery.
// Proof verification lives outside this service.
var ErrProofOfDeliveryRequired = errors.New("proof of delivery required")

// ErrTransitionNotAllowed is the sentinel wrapped by every transition
// rejection so callers can distinguish rule violations from infrastructure
// failures.
var ErrTransitionNotAllowed = errors.New("transition not allowed")

// Lifecycle is a domain service that validates and applies parcel status
// transitions.
//
// Business rules:
//   - Transitions must follow the parcel status graph
//   - FAILED can only be reopened for bids by an admin actor
//   - A force apply bypasses validation for corrective admin actions
//   - Side effects (timestamps, courier clearing) are applied atomically
//     with the status change and never partially on failure
type Lifecycle struct{}

// NewLifecycle creates a new Lifecycle instance.
func NewLifecycle() Lifecycle {
	return Lifecycle{}
}

// ValidateTransition checks whether the parcel may move to target. The
// returned error carries the allowed next states for display.
func (l Lifecycle) ValidateTransition(p *parcel.Parcel, target parcel.Status, isAdmin bool) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := target.Validate(); err != nil {
		return err
	}

	current := p.Status()
	if current == target {
		return fmt.Errorf("%w: parcel is already in status %s", ErrTransitionNotAllowed, current)
	}

	if current == parcel.Failed && target == parcel.OpenForBids && !isAdmin {
		return fmt.Errorf("%w: transition %s -> %s requires an admin actor",
			ErrTransitionNotAllowed, current, target)
	}

	if !current.CanTransitionTo(target) {
		allowed := current.AllowedNext()
		if len(allowed) == 0 {
			return fmt.Errorf("%w: invalid transition %s -> %s: %s is terminal",
				ErrTransitionNotAllowed, current, target, current)
		}
		names := make([]string, 0, len(allowed))
		for _, s := range allowed {
			names = append(names, s.String())
		}
		return fmt.Errorf("%w: invalid transition %s -> %s: allowed next states are %s",
			ErrTransitionNotAllowed, current, target, strings.Join(names, ", "))
	}

	return nil
}

// ApplyTransition validates (unless force) and moves the parcel to
// target, applying the per-target side effects.
func (l Lifecycle) ApplyTransition(p *parcel.Parcel, target parcel.Status, isAdmin bool, force bool, now time.Time) error {
	if force {
		if err := p.Validate(); err != nil {
			return err
		}
		if err := target.Validate(); err != nil {
			return err
		}
		p.ForceStatus(target, now)
		return nil
	}

	if err := l.ValidateTransition(p, target, isAdmin); err != nil {
		return err
	}

	return p.ChangeStatus(target, now)
}

// CanCancel reports whether the parcel may be canceled, with a
// human-readable reason when it may not.
func (l Lifecycle) CanCancel(p *parcel.Parcel) (bool, string) {
	switch p.Status() {
	case parcel.Delivered, parcel.Canceled:
		return false, fmt.Sprintf("parcel is %s", p.Status())
	case parcel.Failed:
		return false, "failed parcel must be retried by an admin"
	case parcel.InTransit:
		return false, "parcel is already with the courier"
	default:
		return true, ""
	}
}

// CanMarkDelivered reports whether the parcel can be marked delivered.
// ErrProofOfDeliveryRequired means the transition is otherwise valid but
// the caller must verify proof of delivery first.
func (l Lifecycle) CanMarkDelivered(p *parcel.Parcel) error {
	if err := l.ValidateTransition(p, parcel.Delivered, false); err != nil {
		return err
	}
	if p.RequiresProof() {
		return ErrProofOfDeliveryRequired
	}
	return nil
}
