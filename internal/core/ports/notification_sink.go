package ports

import (
	"context"

	"crowdship/internal/core/domain/model/kernel"
)

// NotificationKind classifies outgoing notifications so downstream
// delivery channels can template them.
type NotificationKind string

const (
	NotificationStatusChanged     NotificationKind = "status_changed"
	NotificationBidPlaced         NotificationKind = "bid_placed"
	NotificationBidSelected       NotificationKind = "bid_selected"
	NotificationBidRejected       NotificationKind = "bid_rejected"
	NotificationBidExpired        NotificationKind = "bid_expired"
	NotificationBidWithdrawn      NotificationKind = "bid_withdrawn"
	NotificationDeadlineWarning   NotificationKind = "deadline_warning"
	NotificationDeadlineExtended  NotificationKind = "deadline_extended"
	NotificationBiddingExpired    NotificationKind = "bidding_expired"
	NotificationRouteDeactivated  NotificationKind = "route_deactivated"
	NotificationSelectionReverted NotificationKind = "selection_reverted"
)

// NotificationSink delivers user-facing notifications. Implementations
// must be best effort: a sink failure is logged by the caller and never
// aborts an already committed state change.
type NotificationSink interface {
	Notify(ctx context.Context, userID kernel.UUID, kind NotificationKind, message string, parcelID *kernel.UUID) error
}
