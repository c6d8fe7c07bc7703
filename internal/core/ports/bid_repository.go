package ports

import (
	"context"

	"crowdship/internal/core/domain/model/bid"
	"crowdship/internal/core/domain/model/kernel"
)

// BidRepository defines the persistence contract for bid aggregates.
type BidRepository interface {
	// Add persists a new bid aggregate to storage.
	Add(ctx context.Context, aggregate *bid.Bid) error

	// Update persists changes to an existing bid aggregate.
	Update(ctx context.Context, aggregate *bid.Bid) error

	// Get retrieves a bid aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*bid.Bid, error)

	// GetAllForParcel retrieves every bid placed on the given parcel.
	GetAllForParcel(ctx context.Context, parcelID kernel.UUID) ([]*bid.Bid, error)

	// GetPendingForParcel retrieves the Pending bids on the given parcel.
	GetPendingForParcel(ctx context.Context, parcelID kernel.UUID) ([]*bid.Bid, error)

	// GetOpenByRoute retrieves the Pending and Selected bids tied to the
	// given route. Used by the route cleanup cascade.
	GetOpenByRoute(ctx context.Context, routeID kernel.UUID) ([]*bid.Bid, error)

	// GetByParcelAndCourier retrieves the courier's bid on the parcel, if
	// any. At most one bid per parcel and courier pair exists.
	GetByParcelAndCourier(ctx context.Context, parcelID, courierID kernel.UUID) (*bid.Bid, error)
}
