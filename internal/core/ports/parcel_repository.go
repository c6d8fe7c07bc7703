// Package ports defines repository and collaborator interfaces for the
// crowdship domain. These interfaces establish contracts between the domain
// layer and infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/model/parcel"
)

// ParcelRepository defines the persistence contract for parcel aggregates.
type ParcelRepository interface {
	// Add persists a new parcel aggregate to storage.
	// The parcel must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *parcel.Parcel) error

	// Update persists changes to an existing parcel aggregate.
	// The parcel must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *parcel.Parcel) error

	// Get retrieves a parcel aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)

	// GetAllOpenForMatching retrieves active parcels still accepting
	// couriers, i.e. in New or OpenForBids status.
	GetAllOpenForMatching(ctx context.Context) ([]*parcel.Parcel, error)

	// GetAllBiddingWithDeadline retrieves active OpenForBids parcels that
	// have a bid deadline set. Used by the bidding deadline job.
	GetAllBiddingWithDeadline(ctx context.Context) ([]*parcel.Parcel, error)

	// GetAllAssignedToCourier retrieves active parcels currently assigned
	// to the given courier.
	GetAllAssignedToCourier(ctx context.Context, courierID kernel.UUID) ([]*parcel.Parcel, error)
}
