package queries

import (
	"errors"
	"time"

	"crowdship/internal/core/domain/model/kernel"
)

var ErrGetOpenParcelsQueryIsNotConstructed = errors.New(
	"GetOpenParcelsQuery must be created via NewGetOpenParcelsQuery constructor",
)

// GetOpenParcelsQuery retrieves every parcel still accepting couriers,
// each with a count of active routes that could serve it.
//
// Example:
//
//	query := NewGetOpenParcelsQuery()
//	handler := NewGetOpenParcelsQueryHandler(db)
//
//	parcels, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get open parcels: %w", err)
//	}
//	for _, p := range parcels {
//	    fmt.Printf("%s: %d candidate routes\n", p.ID, p.MatchingRoutes)
//	}
type GetOpenParcelsQuery struct {
	guard kernel.ConstructorGuard
}

// NewGetOpenParcelsQuery creates a parameterless query for open parcels.
func NewGetOpenParcelsQuery() GetOpenParcelsQuery {
	return GetOpenParcelsQuery{guard: kernel.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetOpenParcelsQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenParcelsQueryIsNotConstructed)
}

// GetOpenParcelsQueryResponse is one open parcel with its matching summary.
type GetOpenParcelsQueryResponse struct {
	ID             kernel.UUID
	SenderID       kernel.UUID
	Pickup         kernel.GeoPoint
	Dropoff        kernel.GeoPoint
	PickupAddress  string
	DropoffAddress string
	SizeClass      string
	WeightKg       float64
	Price          float64
	BidCount       int
	BidDeadline    *time.Time

	// MatchingRoutes counts the active routes whose corridor covers both
	// of the parcel's points.
	MatchingRoutes int
}
