// Package queries contains read-side operations in the CQRS architecture.
// Query handlers read directly from the database with raw SQL and return
// flat response models, bypassing the aggregate repositories.
package queries

import (
	"errors"

	"crowdship/internal/core/domain/model/kernel"
)

var ErrGetMatchingParcelsQueryIsNotConstructed = errors.New(
	"GetMatchingParcelsQuery must be created via NewGetMatchingParcelsQuery constructor",
)

// GetMatchingParcelsQuery retrieves the open parcels a route could serve,
// ranked by added detour.
//
// Example:
//
//	query, err := NewGetMatchingParcelsQuery(routeID)
//	if err != nil {
//	    return fmt.Errorf("invalid query: %w", err)
//	}
//
//	handler := NewGetMatchingParcelsQueryHandler(db)
//	matches, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("matching failed: %w", err)
//	}
//	fmt.Printf("%d parcels along this route\n", len(matches))
type GetMatchingParcelsQuery struct { //nolint:recvcheck //using for validation
	routeID kernel.UUID

	guard kernel.ConstructorGuard
}

// NewGetMatchingParcelsQuery creates a query for parcels along a route.
func NewGetMatchingParcelsQuery(routeID kernel.UUID) (GetMatchingParcelsQuery, error) {
	q := GetMatchingParcelsQuery{guard: kernel.NewConstructorGuard()}
	if err := q.setRouteID(routeID); err != nil {
		return GetMatchingParcelsQuery{}, err
	}
	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetMatchingParcelsQuery) Validate() error {
	return q.guard.Validate(ErrGetMatchingParcelsQueryIsNotConstructed)
}

// RouteID returns the route whose corridor is being matched.
func (q GetMatchingParcelsQuery) RouteID() kernel.UUID {
	return q.routeID
}

func (q *GetMatchingParcelsQuery) setRouteID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	q.routeID = id
	return nil
}

// GetMatchingParcelsQueryResponse is one parcel a route can serve.
type GetMatchingParcelsQueryResponse struct {
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

	// DistanceFromRouteKm is the larger of the pickup and dropoff
	// distances to the route segment.
	DistanceFromRouteKm float64

	// DetourKm is the extra driving the parcel adds to the route.
	DetourKm float64
}
