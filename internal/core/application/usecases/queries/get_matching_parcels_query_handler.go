package queries

import (
	"context"
	"sort"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/model/parcel"
	"crowdship/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetMatchingParcelsQueryHandler ranks open parcels against one route's
// corridor. The corridor predicate and the ranking are the same ones the
// RouteMatcher domain service applies, computed here over read-model rows.
type GetMatchingParcelsQueryHandler struct {
	db *gorm.DB
}

// NewGetMatchingParcelsQueryHandler creates a handler for route matching queries.
func NewGetMatchingParcelsQueryHandler(db *gorm.DB) GetMatchingParcelsQueryHandler {
	return GetMatchingParcelsQueryHandler{db: db}
}

// Handle executes the matching query. Returns parcels whose pickup and
// dropoff both lie within the route's corridor, sorted by ascending detour.
func (h GetMatchingParcelsQueryHandler) Handle(
	ctx context.Context,
	query GetMatchingParcelsQuery,
) ([]GetMatchingParcelsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var routeRow struct {
		StartLat       float64
		StartLng       float64
		EndLat         float64
		EndLng         float64
		MaxDeviationKm float64
		IsActive       bool
	}

	result := h.db.WithContext(ctx).Raw(`
		SELECT
			start_lat,
			start_lng,
			end_lat,
			end_lng,
			max_deviation_km,
			is_active
		FROM routes
		WHERE id = ?
	`, query.RouteID().Bytes()).Scan(&routeRow)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errs.NewObjectNotFoundError("routeID", query.RouteID())
	}

	matches := make([]GetMatchingParcelsQueryResponse, 0)
	if !routeRow.IsActive {
		return matches, nil
	}

	segStart, err := kernel.NewGeoPoint(routeRow.StartLat, routeRow.StartLng)
	if err != nil {
		return nil, err
	}
	segEnd, err := kernel.NewGeoPoint(routeRow.EndLat, routeRow.EndLng)
	if err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			sender_id,
			pickup_lat,
			pickup_lng,
			dropoff_lat,
			dropoff_lng,
			pickup_address,
			dropoff_address,
			size_class,
			weight_kg,
			price,
			bid_count
		FROM parcels
		WHERE status IN (?, ?)
		AND is_active
		ORDER BY id
	`, int(parcel.New), int(parcel.OpenForBids)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, senderID                           uuid.UUID
			pickupLat, pickupLng                   float64
			dropoffLat, dropoffLng                 float64
			pickupAddress, dropoffAddress          string
			sizeClass                              string
			weightKg, price                        float64
			bidCount                               int
		)

		if err = rows.Scan(
			&id, &senderID,
			&pickupLat, &pickupLng, &dropoffLat, &dropoffLng,
			&pickupAddress, &dropoffAddress,
			&sizeClass, &weightKg, &price, &bidCount,
		); err != nil {
			return nil, err
		}

		pickup, pErr := kernel.NewGeoPoint(pickupLat, pickupLng)
		if pErr != nil {
			return nil, pErr
		}
		dropoff, dErr := kernel.NewGeoPoint(dropoffLat, dropoffLng)
		if dErr != nil {
			return nil, dErr
		}

		dist := kernel.PointToSegmentDistanceKm(pickup, segStart, segEnd)
		if d := kernel.PointToSegmentDistanceKm(dropoff, segStart, segEnd); d > dist {
			dist = d
		}
		if dist > routeRow.MaxDeviationKm {
			continue
		}

		parcelID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		parcelSenderID, idErr := kernel.UUIDFromBytes(senderID[:])
		if idErr != nil {
			return nil, idErr
		}

		matches = append(matches, GetMatchingParcelsQueryResponse{
			ID:                  parcelID,
			SenderID:            parcelSenderID,
			Pickup:              pickup,
			Dropoff:             dropoff,
			PickupAddress:       pickupAddress,
			DropoffAddress:      dropoffAddress,
			SizeClass:           sizeClass,
			WeightKg:            weightKg,
			Price:               price,
			BidCount:            bidCount,
			DistanceFromRouteKm: dist,
			DetourKm:            kernel.DetourKm(segStart, segEnd, pickup, dropoff),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DetourKm < matches[j].DetourKm
	})

	return matches, nil
}
